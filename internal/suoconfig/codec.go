// Package suoconfig encodes and decodes the startup project block stored in
// the SolutionConfiguration stream of a .suo file.
//
// The block is UTF-16LE text. A fixed header
//
//	DC1 NUL "MultiStartupProj" NUL '=' ETX SOH NUL ';'
//
// is followed, for each startup project, by
//
//	'4' NUL "{GUID}.dwStartupOpt" NUL '=' ETX DC1 NUL ';'
//
// The '4' option code and the control character framing mirror what Visual
// Studio itself writes and must be reproduced byte for byte.
package suoconfig

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/danieljhkim/slnstart/internal/guid"
)

// StreamName is the name of the container stream holding the block.
const StreamName = "SolutionConfiguration"

const (
	nul = "\u0000"
	dc1 = "\u0011"
	etx = "\u0003"
	soh = "\u0001"

	// startupOption marks a project as a startup project.
	startupOption = "4"

	header = dc1 + nul + "MultiStartupProj" + nul + "=" + etx + soh + nul + ";"
)

var (
	// ErrEmpty indicates an attempt to encode no projects.
	ErrEmpty = errors.New("no startup projects to encode")

	// ErrMalformed indicates bytes that are not UTF-16LE text.
	ErrMalformed = errors.New("malformed configuration block")
)

var (
	utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

	startupOptPattern = regexp.MustCompile(`\{([^{}]*)\}\.dwStartupOpt`)
)

// Encode renders ids as a configuration block. Identities are canonicalised
// before they are embedded.
func Encode(ids []string) ([]byte, error) {
	if len(ids) == 0 {
		return nil, ErrEmpty
	}

	var b strings.Builder
	b.WriteString(header)
	for _, id := range ids {
		braced, err := guid.Braced(id)
		if err != nil {
			return nil, err
		}
		b.WriteString(startupOption)
		b.WriteString(nul)
		b.WriteString(braced)
		b.WriteString(".dwStartupOpt")
		b.WriteString(nul)
		b.WriteString("=")
		b.WriteString(etx)
		b.WriteString(dc1)
		b.WriteString(nul)
		b.WriteString(";")
	}

	data, err := utf16le.NewEncoder().Bytes([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration block: %w", err)
	}
	return data, nil
}

// Decode extracts the startup project identities from a configuration block,
// in the order they appear, with duplicates collapsed.
func Decode(data []byte) ([]string, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length %d", ErrMalformed, len(data))
	}

	text, err := utf16le.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var ids []string
	seen := make(map[string]struct{})
	for _, match := range startupOptPattern.FindAllStringSubmatch(string(text), -1) {
		id, err := guid.Canonical(match[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
