package sign

import (
	"fmt"
	"sort"
	"strings"
)

// Default phrases, in logical (unshaped) order.
const (
	PhraseNone    = "لم يتم اكتشاف إشارة"
	PhraseWin     = "نعم، لقد فزنا."
	PhraseLove    = "أنا أحبك!"
	PhraseLike    = "أعجبني!"
	PhraseDislike = "لم يعجبني"
	PhraseStop    = "توقف!"
	PhraseOk      = "ممتاز!"
)

var signKeys = map[Sign]string{
	NoneDetected: "none",
	WinSign:      "win",
	LoveSign:     "love",
	LikeSign:     "like",
	DislikeSign:  "dislike",
	StopSign:     "stop",
	OkSign:       "ok",
}

// Key returns the short configuration key of the sign, e.g. "win".
func (s Sign) Key() string {
	return signKeys[s]
}

// ParseKey returns the sign for a configuration key.
func ParseKey(key string) (Sign, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for s, k := range signKeys {
		if k == key {
			return s, nil
		}
	}
	keys := make([]string, 0, len(signKeys))
	for _, k := range signKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return NoneDetected, fmt.Errorf("unknown sign %q (want one of %s)", key, strings.Join(keys, ", "))
}

// Phrasebook maps each sign to the phrase shown for it.
type Phrasebook struct {
	phrases map[Sign]string
}

// DefaultPhrasebook returns the built-in Arabic phrases.
func DefaultPhrasebook() *Phrasebook {
	return &Phrasebook{phrases: map[Sign]string{
		NoneDetected: PhraseNone,
		WinSign:      PhraseWin,
		LoveSign:     PhraseLove,
		LikeSign:     PhraseLike,
		DislikeSign:  PhraseDislike,
		StopSign:     PhraseStop,
		OkSign:       PhraseOk,
	}}
}

// WithOverrides returns a copy of the phrasebook where the phrases keyed by
// sign key (see Sign.Key) replace the defaults. Empty values are ignored.
func (p *Phrasebook) WithOverrides(overrides map[string]string) (*Phrasebook, error) {
	out := &Phrasebook{phrases: make(map[Sign]string, len(p.phrases))}
	for s, text := range p.phrases {
		out.phrases[s] = text
	}
	for key, text := range overrides {
		s, err := ParseKey(key)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		out.phrases[s] = text
	}
	return out, nil
}

// Text returns the phrase for s, falling back to the NoneDetected phrase.
func (p *Phrasebook) Text(s Sign) string {
	if text, ok := p.phrases[s]; ok {
		return text
	}
	return p.phrases[NoneDetected]
}
