package model

import (
	"fmt"
	"time"
)

// BedLock is an advisory lock serializing the overlap-check-and-commit
// window for a single bed. The _id doubles as the lock key, so a second
// concurrent acquirer fails on the unique index.
type BedLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// BedLockID builds the lock key for a bed.
func BedLockID(roomNumber int, bedNumber string) string {
	return fmt.Sprintf("room:%d:bed:%s", roomNumber, bedNumber)
}
