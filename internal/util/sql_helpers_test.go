package util

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringToNullString(t *testing.T) {
	assert.False(t, StringToNullString("").Valid)
	assert.False(t, StringToNullString("  \n").Valid)

	ns := StringToNullString("explanation")
	assert.True(t, ns.Valid)
	assert.Equal(t, "explanation", ns.String)
}

func TestNullStringValue(t *testing.T) {
	assert.Equal(t, "", NullStringValue(sql.NullString{String: "stale", Valid: false}))
	assert.Equal(t, "why", NullStringValue(sql.NullString{String: "why", Valid: true}))
}

func TestNewULID_SortsInCreationOrder(t *testing.T) {
	first := NewULID()
	second := NewULID()

	assert.Len(t, first, 26)
	assert.NotEqual(t, first, second)
	assert.Less(t, first, second)
}
