package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims are issued by the external identity provider.
type UserClaims struct {
	jwt.RegisteredClaims
	MemberID  uint   `json:"member_id"`
	ChapterID uint   `json:"chapter_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// IsTreasurer reports whether the caller can manage chapter finances.
func (c *UserClaims) IsTreasurer() bool {
	return c.Role == RoleTreasurer || c.Role == RoleAdmin
}

// CanAccessChapter reports whether the caller may act on chapterID.
func (c *UserClaims) CanAccessChapter(chapterID uint) bool {
	return c.Role == RoleAdmin || c.ChapterID == chapterID
}
