package config

import (
	"fmt"
	"os"
)

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(Template), 0o600)
}

// Template is a commented pngctl.toml carrying the default values.
const Template = `# pngctl configuration

# trace | debug | info | warn | error | disabled
log_level = "info"
log_timestamp = false

# Store encoded messages as zstd frames.
compress = false
# fastest | default | better | best
compression_level = "default"

# Input files above this size are rejected. 0 disables the limit.
max_file_size = 268435456
# Upper bound on a decompressed message.
max_message_size = 16777216

# text | json | yaml
print_format = "text"
# List every chunk, not only message carriers.
print_all = false
`
