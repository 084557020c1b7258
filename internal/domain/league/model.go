package league

import (
	"fmt"
	"time"
)

// League links a provider fantasy league with the credential pair needed to
// read it. Credentials stay encrypted at rest and are decrypted per call.
type League struct {
	ID               string
	Name             string
	ProviderLeagueID int
	EncryptedS2      string
	EncryptedSWID    string
	PitcherSlots     []int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DefaultPitcherSlots is the fallback active pitcher slot set for leagues
// whose settings did not surface a usable one.
var DefaultPitcherSlots = []int{13, 14, 15}

// NormalizePitcherSlots drops slot ids outside the pitcher range and falls
// back to the default set when nothing valid remains.
func NormalizePitcherSlots(slots []int) []int {
	valid := make([]int, 0, len(slots))
	for _, s := range slots {
		if s >= 13 && s <= 15 {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		out := make([]int, len(DefaultPitcherSlots))
		copy(out, DefaultPitcherSlots)
		return out
	}
	return valid
}

// PitcherSlotSet returns the normalized slots as a lookup set.
func (l League) PitcherSlotSet() map[int]bool {
	set := make(map[int]bool)
	for _, s := range NormalizePitcherSlots(l.PitcherSlots) {
		set[s] = true
	}
	return set
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.ProviderLeagueID <= 0 {
		return fmt.Errorf("provider league id must be greater than zero")
	}
	if l.EncryptedS2 == "" || l.EncryptedSWID == "" {
		return fmt.Errorf("league credentials are required")
	}
	return nil
}
