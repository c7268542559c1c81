package domain

import (
	"fmt"
	"regexp"
	"time"
)

var shortIDPattern = regexp.MustCompile(`^P[0-9]{3,}$`)

// Project is a registered glazing contract.
type Project struct {
	ID            string
	ShortID       string
	Name          string
	Client        string
	Location      string
	ContractValue Cents
	StartDate     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FormatShortID renders a registry sequence number as P001, P002, ...
func FormatShortID(seq int) string {
	return fmt.Sprintf("P%03d", seq)
}

// ValidateShortID checks that ShortID is a registry number such as P001.
func (p *Project) ValidateShortID() error {
	if p.ShortID == "" {
		return fmt.Errorf("short ID is required")
	}
	if !shortIDPattern.MatchString(p.ShortID) {
		return fmt.Errorf("short ID %q must be P followed by at least 3 digits (e.g. P001)", p.ShortID)
	}
	return nil
}

// DisplayID returns the best short identifier for display.
// It prefers ShortID; if empty it truncates ID to 8 characters.
func (p *Project) DisplayID() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
