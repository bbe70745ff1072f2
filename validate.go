package userconf

import "fmt"

const (
	MaxNameLength = 100
	MaxURLLength  = 223
)

func ValidateName(name string) error {
	if len(name) > MaxNameLength {
		return &ValidationError{
			Field:  "name",
			Reason: fmt.Sprintf("%d bytes exceeds limit of %d", len(name), MaxNameLength),
		}
	}
	return nil
}

// ValidateProfilePic enforces the url/key pairing. The key bytes are opaque.
func ValidateProfilePic(pic ProfilePic) error {
	hasURL := pic.URL != ""
	hasKey := len(pic.Key) > 0
	switch {
	case hasURL && !hasKey:
		return &ValidationError{Field: "profile_pic", Reason: "url set without key"}
	case hasKey && !hasURL:
		return &ValidationError{Field: "profile_pic", Reason: "key set without url"}
	case len(pic.URL) > MaxURLLength:
		return &ValidationError{
			Field:  "profile_pic",
			Reason: fmt.Sprintf("url of %d bytes exceeds limit of %d", len(pic.URL), MaxURLLength),
		}
	}
	return nil
}

// ValidatePriority checks that a stored priority lies in the record domain.
func ValidatePriority(priority int64) error {
	if priority < HiddenPriority || priority > MaxPriority {
		return &ValidationError{
			Field:  "priority",
			Reason: fmt.Sprintf("%d outside [%d, %d]", priority, HiddenPriority, MaxPriority),
		}
	}
	return nil
}
