package printer

import (
	"fmt"
	"sort"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	esc = 0x1b

	feedLines = 3
)

// Profile describes a printer model's paper width and character table.
type Profile struct {
	Name     string
	Width    int // characters per line
	CodePage byte
	Charmap  *charmap.Charmap
}

var profiles = map[string]Profile{
	"NT-5890K": {Name: "NT-5890K", Width: 32, CodePage: 18, Charmap: charmap.CodePage852},
	"default":  {Name: "default", Width: 42, CodePage: 0, Charmap: charmap.CodePage437},
}

// LookupProfile returns the named profile.
func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		names := make([]string, 0, len(profiles))
		for n := range profiles {
			names = append(names, n)
		}
		sort.Strings(names)
		return Profile{}, fmt.Errorf("unknown printer profile %q (known: %v)", name, names)
	}
	return p, nil
}

// Encode turns text into an ESC/POS job: reset, select the profile's code
// page, the transcoded text, then a paper feed. Runes missing from the code
// page are replaced.
func Encode(p Profile, text string) ([]byte, error) {
	enc := encoding.ReplaceUnsupported(p.Charmap.NewEncoder())
	body, err := enc.Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to encode receipt for %s: %w", p.Name, err)
	}

	job := make([]byte, 0, len(body)+8)
	job = append(job, esc, '@')
	job = append(job, esc, 't', p.CodePage)
	job = append(job, body...)
	job = append(job, esc, 'd', feedLines)
	return job, nil
}
