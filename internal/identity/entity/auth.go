package entity

import (
	"time"
)

type User struct {
	ID        int64
	Email     string
	FullName  string
	Phone     string
	Role      UserRole
	Status    UserStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NewUser struct {
	ID       int64
	Email    string
	FullName string
	Phone    string
	Role     UserRole
}

type UserLoginInfo struct {
	ID       int64
	Email    string
	Role     UserRole
	Status   UserStatus
	Password string // hashed
}

type Challenge struct {
	ID        int64
	UserID    int64
	Token     string // hashed
	Purpose   ChallengePurpose
	ExpiresAt time.Time
}

type ChallengeUser struct {
	ChallengeID int64
	UserID      int64
	UserEmail   string
	UserStatus  UserStatus
	ExpiresAt   time.Time
}

type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string // hashed
	ExpiresAt time.Time
	Revoked   bool
}

type UserRefreshToken struct {
	TokenID    int64
	UserID     int64
	UserEmail  string
	UserRole   UserRole
	UserStatus UserStatus
	ExpiresAt  time.Time
	Revoked    bool
}

type RotateRefreshToken struct {
	OldTokenID int64
	New        RefreshToken
}

type UserListFilterData struct {
	Search           string
	Statuses         []int16
	DateFrom         time.Time
	DateTo           time.Time
	OrderBy          string
	OrderDirection   string
	Size             int32
	Page             int32
	IsFilterBySearch bool
	IsFilterByStatus bool
}
