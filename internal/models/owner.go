package models

import "time"

// LayoutKind names the record type a widget set belongs to.
type LayoutKind string

const (
	KindProfile   LayoutKind = "profile"
	KindGuild     LayoutKind = "guild"
	KindDashboard LayoutKind = "dashboard"
)

// Valid reports whether k is a known layout kind.
func (k LayoutKind) Valid() bool {
	switch k {
	case KindProfile, KindGuild, KindDashboard:
		return true
	}
	return false
}

// OwnerRef identifies the record that owns a canonical widget set.
type OwnerRef struct {
	Kind LayoutKind `json:"kind"`
	ID   string     `json:"id"`
}

func (r OwnerRef) String() string {
	return string(r.Kind) + "/" + r.ID
}

// LayoutRecord is a loaded widget set together with the users allowed to edit it.
type LayoutRecord struct {
	Ref       OwnerRef  `json:"ref"`
	Layout    Layout    `json:"layout"`
	OwnerIDs  []string  `json:"-"`
	Stored    bool      `json:"-"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// IsOwner reports whether uid may edit the record.
func (r LayoutRecord) IsOwner(uid string) bool {
	if uid == "" {
		return false
	}
	for _, id := range r.OwnerIDs {
		if id == uid {
			return true
		}
	}
	return false
}
