// Package sidegames содержит правила побочных игр: нормализацию ключей каталога,
// ограничения выбора, расчёт сборов и фильтрацию уже купленных игр.
package sidegames

import (
	"regexp"
	"strings"
)

var (
	numericPrefixRe = regexp.MustCompile(`^\d+_`)
	nonAlnumRe      = regexp.MustCompile(`[^a-z0-9]`)

	netRe        = regexp.MustCompile(`(?i)net`)
	divisionRe   = regexp.MustCompile(`(?i)d[1-5]_skins`)
	superSkinsRe = regexp.MustCompile(`(?i)super_skins`)
)

// NormalizeKey приводит ключ каталога или подпись строки к каноническому виду:
// "03_Super_Skins" -> "super_skins", "D2 Skins" -> "d2_skins".
func NormalizeKey(raw string) string {
	s := strings.TrimSpace(raw)
	s = numericPrefixRe.ReplaceAllString(s, "")
	s = strings.ToLower(s)
	return nonAlnumRe.ReplaceAllString(s, "_")
}

type Group int

const (
	GroupOther Group = iota
	GroupNet
	GroupDivision
	GroupSuperSkins
)

func (g Group) String() string {
	switch g {
	case GroupNet:
		return "net"
	case GroupDivision:
		return "division"
	case GroupSuperSkins:
		return "super_skins"
	default:
		return "other"
	}
}

// Classify определяет группу игры по ключу. Дивизион проверяется раньше net.
func Classify(key string) Group {
	k := NormalizeKey(key)
	switch {
	case divisionRe.MatchString(k):
		return GroupDivision
	case netRe.MatchString(k):
		return GroupNet
	case superSkinsRe.MatchString(k):
		return GroupSuperSkins
	default:
		return GroupOther
	}
}

// KeySet — множество нормализованных ключей.
type KeySet map[string]struct{}

func NewKeySet(keys ...string) KeySet {
	set := make(KeySet, len(keys))
	for _, k := range keys {
		set.Add(k)
	}
	return set
}

func (s KeySet) Add(key string) {
	if n := NormalizeKey(key); n != "" {
		s[n] = struct{}{}
	}
}

func (s KeySet) Has(key string) bool {
	_, ok := s[NormalizeKey(key)]
	return ok
}
