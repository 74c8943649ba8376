package swo

import (
	"bufio"
	"io"
	"strings"
)

// IniFile maps section names to their key-value pairs. Keys set before the
// first section live in the "" section.
type IniFile struct {
	Sections map[string]map[string]string
}

// NewIniFile creates a new empty IniFile
func NewIniFile() *IniFile {
	return &IniFile{
		Sections: make(map[string]map[string]string),
	}
}

// ParseIni reads an INI document. Lines starting with ';' or '#' are
// comments. Section and key names are lower-cased; values are kept verbatim
// apart from surrounding whitespace.
func ParseIni(r io.Reader) (*IniFile, error) {
	ini := NewIniFile()
	scanner := bufio.NewScanner(r)
	currentSection := ""
	ini.Sections[currentSection] = make(map[string]string)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			if _, exists := ini.Sections[currentSection]; !exists {
				ini.Sections[currentSection] = make(map[string]string)
			}
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.ToLower(strings.TrimSpace(parts[0]))
			ini.Sections[currentSection][key] = strings.TrimSpace(parts[1])
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ini, nil
}

// Value returns the value of key in section.
func (ini *IniFile) Value(section, key string) (string, bool) {
	sec, ok := ini.Sections[section]
	if !ok {
		return "", false
	}
	v, ok := sec[key]
	return v, ok
}
