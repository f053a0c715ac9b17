package entity

import (
	"strconv"
	"strings"
)

type UserStatus int16

const (
	// UserStatusUnknown is mean status is not known / not set.
	UserStatusUnknown UserStatus = 0

	// UserStatusActive mean user is allowed to use the app.
	UserStatusActive UserStatus = 1

	// UserStatusBanned mean user is blocked from using the app (policy/abuse/etc).
	UserStatusBanned UserStatus = 2

	// UserStatusInactive mean user is not currently active (e.g., deactivated, closed).
	UserStatusInactive UserStatus = 3
)

func (us UserStatus) String() string {
	switch us {
	case UserStatusActive:
		return "Active"
	case UserStatusBanned:
		return "Banned"
	case UserStatusInactive:
		return "Inactive"
	default:
		return "Unknown"
	}
}

func (us UserStatus) IsUnknown() bool {
	switch us {
	case UserStatusActive, UserStatusBanned, UserStatusInactive:
		return false
	default:
		return true
	}
}

func (us UserStatus) Ensure() UserStatus {
	switch us {
	case UserStatusActive:
		return UserStatusActive
	case UserStatusBanned:
		return UserStatusBanned
	case UserStatusInactive:
		return UserStatusInactive
	default:
		return UserStatusUnknown
	}
}

func ParseSafeUserStatuses(raws []string) []UserStatus {
	out := make([]UserStatus, 0)
	seen := map[UserStatus]struct{}{}

	for _, v := range raws {
		n, err := strconv.ParseInt(v, 10, 16)
		if err != nil {
			continue
		}

		s := UserStatus(n)
		if s.IsUnknown() {
			continue
		}

		if _, ok := seen[s]; ok {
			continue
		}

		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}

func ToInt16Slice(sts []UserStatus) []int16 {
	out := make([]int16, len(sts))
	for i, s := range sts {
		out[i] = int16(s)
	}
	return out
}

// UserRole maps directly to the casbin subject role used for authorization.
type UserRole int16

const (
	UserRoleUnknown UserRole = 0
	UserRoleUser    UserRole = 1
	UserRoleAdmin   UserRole = 2
)

func UserRoleFromString(raw string) UserRole {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "user":
		return UserRoleUser
	case "admin":
		return UserRoleAdmin
	default:
		return UserRoleUnknown
	}
}

func (ur UserRole) String() string {
	switch ur {
	case UserRoleUser:
		return "user"
	case UserRoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

type ChallengePurpose int16

const (
	ChallengePurposeUnknown             ChallengePurpose = 0
	ChallengePurposePasswordForgotReset ChallengePurpose = 1
)
