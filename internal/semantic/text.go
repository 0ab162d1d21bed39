// Package semantic builds embeddable text from domain records.
package semantic

import (
	"strconv"
	"strings"

	"github.com/kindredlabs/kindred/internal/store"
)

// UserText builds embeddable text from a User's fields. Pure function of the
// input: the same user always produces a byte-identical string, so stored
// and queried text shapes match exactly.
func UserText(u *store.User) string {
	age := "Unknown"
	if u.Age != nil {
		age = strconv.Itoa(*u.Age)
	}
	var b strings.Builder
	b.WriteString("Name: " + u.Name + ". ")
	b.WriteString("Bio: " + u.Bio + ". ")
	b.WriteString("Interests: " + strings.Join(u.Interests, ", ") + ". ")
	b.WriteString("Location: " + u.Location + ". ")
	b.WriteString("Age: " + age)
	return b.String()
}
