package auth

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Static errors for err113 compliance.
var (
	ErrKeyFileMissingKey    = errors.New("key file does not contain a 'key' entry")
	ErrKeyFileMissingSecret = errors.New("key file does not contain a 'secret' entry")
)

// LoadKeyFile parses an API key file as downloaded from the firewall UI and
// returns a provider for the contained credentials. The file format is one
// entry per line:
//
//	key="w86XNZob/8Oq8aC5r0kbNarNtdroQJ9Fn90MyyKu..."
//	secret="XeD26XVrJ5ilAc/EmglCRC+0j2e57tRsjHwFepOs..."
func LoadKeyFile(path string) (*StaticCredentials, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening API key file: %w", err)
	}
	defer func() { _ = file.Close() }()

	entries := make(map[string]string)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"`)
		entries[strings.TrimSpace(name)] = value
	}

	err = scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("reading API key file: %w", err)
	}

	key, ok := entries["key"]
	if !ok || key == "" {
		return nil, fmt.Errorf("%w: %s", ErrKeyFileMissingKey, path)
	}

	secret, ok := entries["secret"]
	if !ok || secret == "" {
		return nil, fmt.Errorf("%w: %s", ErrKeyFileMissingSecret, path)
	}

	return NewStaticCredentials(key, secret)
}
