// pngctl hides text messages in PNG files by adding, reading and removing
// private ancillary chunks.
//
// Usage:
//
//	pngctl [--config path] [-v] encode <file> <chunk_type> <message> [out_file]
//	pngctl [--config path] [-v] decode <file> <chunk_type>
//	pngctl [--config path] [-v] remove <file> <chunk_type> [--out file]
//	pngctl [--config path] [-v] print <file> [--all] [--format text|json|yaml]
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "pngctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var global globalOptions
	flagSet := pflag.NewFlagSet("pngctl", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.SetInterspersed(false)
	flagSet.StringVar(&global.configPath, "config", "", "path to pngctl.toml (default: $PNGCTL_CONFIG)")
	flagSet.BoolVarP(&global.verbose, "verbose", "v", false, "log every step at trace level")
	flagSet.Usage = func() { printUsage(stderr, flagSet) }

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	rest := flagSet.Args()
	if len(rest) == 0 {
		printUsage(stderr, flagSet)
		return errors.New("missing command")
	}

	env, err := newEnvironment(global, stdout, stderr)
	if err != nil {
		return err
	}

	name, cmdArgs := rest[0], rest[1:]
	switch name {
	case "encode":
		return env.encode(cmdArgs)
	case "decode":
		return env.decode(cmdArgs)
	case "remove":
		return env.remove(cmdArgs)
	case "print":
		return env.print(cmdArgs)
	case "help":
		printUsage(stdout, flagSet)
		return nil
	default:
		return fmt.Errorf("unknown command %q (supported: encode, decode, remove, print)", name)
	}
}

func printUsage(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `pngctl hides messages in PNG chunks.

Usage:
  pngctl [flags] encode <file> <chunk_type> <message> [out_file]
  pngctl [flags] decode <file> <chunk_type>
  pngctl [flags] remove <file> <chunk_type> [--out file]
  pngctl [flags] print <file> [--all] [--format text|json|yaml]

chunk_type is four ASCII letters naming an ancillary, private, safe-to-copy
chunk, for example "ruSt".

Flags:
%s`, flagSet.FlagUsages())
}
