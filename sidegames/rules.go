package sidegames

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoSelection        = errors.New("Please select a side game")
	ErrMultipleNet        = errors.New("Only one net game can be selected per event")
	ErrMultipleDivision   = errors.New("Only one division skins game can be selected per event")
	ErrMultipleSuperSkins = errors.New("Super skins can only be entered once per event")
)

// DuplicateError — выбранные игры уже куплены для этого события.
type DuplicateError struct {
	Names []string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("Already purchased for this event: %s", strings.Join(e.Names, ", "))
}

// ValidateSelection проверяет выбор игр с учётом уже купленных для того же события.
// Ключи сравниваются в нормализованном виде.
func ValidateSelection(selected []string, purchased []string) error {
	if len(selected) == 0 {
		return ErrNoSelection
	}

	owned := NewKeySet(purchased...)
	var dups []string
	for _, key := range selected {
		if owned.Has(key) {
			dups = append(dups, key)
		}
	}
	if len(dups) > 0 {
		return &DuplicateError{Names: dups}
	}

	counts := map[Group]int{}
	seen := KeySet{}
	for _, key := range append(append([]string{}, purchased...), selected...) {
		if seen.Has(key) {
			continue
		}
		seen.Add(key)
		counts[Classify(key)]++
	}

	switch {
	case counts[GroupNet] > 1:
		return ErrMultipleNet
	case counts[GroupDivision] > 1:
		return ErrMultipleDivision
	case counts[GroupSuperSkins] > 1:
		return ErrMultipleSuperSkins
	}
	return nil
}

// Pick раскладывает выбор по группам так, как его хранит корзина:
// первый net, первый дивизион и признак super skins.
func Pick(selected []string) (net, division *string, superSkins bool) {
	for _, key := range selected {
		k := key
		switch Classify(key) {
		case GroupNet:
			if net == nil {
				net = &k
			}
		case GroupDivision:
			if division == nil {
				division = &k
			}
		case GroupSuperSkins:
			superSkins = true
		}
	}
	return net, division, superSkins
}
