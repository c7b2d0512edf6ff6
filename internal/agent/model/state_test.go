package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotsJSONKeepsKinds(t *testing.T) {
	s := NewConversationState()
	s.Slots.Set(FieldAge, Int(45))
	s.Slots.Set(FieldState, String("TS"))
	s.Slots.Set(FieldDisability, Bool(false))

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var back ConversationState
	require.NoError(t, json.Unmarshal(raw, &back))

	age, ok := back.Slots.Int(FieldAge)
	require.True(t, ok)
	assert.Equal(t, 45, age)
	st, ok := back.Slots.Str(FieldState)
	require.True(t, ok)
	assert.Equal(t, "TS", st)
	v, ok := back.Slots.Get(FieldDisability)
	require.True(t, ok)
	b, _ := v.AsBool()
	assert.False(t, b)
}

func TestValueOfRejectsFractions(t *testing.T) {
	_, ok := ValueOf(12.5)
	assert.False(t, ok)
	v, ok := ValueOf(float64(30))
	require.True(t, ok)
	n, _ := v.AsInt()
	assert.Equal(t, 30, n)
	_, ok = ValueOf([]any{1})
	assert.False(t, ok)
}

func TestSlotsSetUnsetValueRemovesKey(t *testing.T) {
	s := Slots{FieldAge: Int(3)}
	s.Set(FieldAge, Value{})
	assert.False(t, s.Has(FieldAge))
	assert.Equal(t, []Field{FieldAge, FieldIncome}, s.Missing([]Field{FieldAge, FieldIncome}))
}

func TestAppendHistoryEvictsOldest(t *testing.T) {
	s := NewConversationState()
	for i := 0; i < 5; i++ {
		s.AppendHistory(RoleUser, string(rune('a'+i)), 3)
	}
	require.Len(t, s.History, 3)
	assert.Equal(t, "c", s.History[0].Content)
	assert.Equal(t, "e", s.History[2].Content)
}

func TestRepair(t *testing.T) {
	s := NewConversationState()
	s.NeedsConfirmation = true
	s.PendingUpdates.Set(FieldAge, Int(40))
	assert.True(t, s.Repair())
	assert.False(t, s.NeedsConfirmation)
	assert.Empty(t, s.PendingUpdates)

	s.PendingConflicts[FieldAge] = Conflict{From: Int(30), To: Int(40)}
	assert.True(t, s.Repair())
	assert.True(t, s.NeedsConfirmation)
	assert.False(t, s.Repair())
}

func TestCommitPendingUpdatesSkipsEmptyStrings(t *testing.T) {
	s := NewConversationState()
	s.Slots.Set(FieldOccupation, String("farmer"))
	s.StageConflicts(map[Field]Conflict{FieldAge: {From: Int(30), To: Int(40)}},
		Slots{FieldAge: Int(40), FieldOccupation: String("")})
	require.True(t, s.NeedsConfirmation)

	s.CommitPendingUpdates()
	age, _ := s.Slots.Int(FieldAge)
	assert.Equal(t, 40, age)
	occ, _ := s.Slots.Str(FieldOccupation)
	assert.Equal(t, "farmer", occ)
	assert.False(t, s.NeedsConfirmation)
	assert.Empty(t, s.PendingConflicts)
}

func TestCloneIsDeep(t *testing.T) {
	s := NewConversationState()
	s.Slots.Set(FieldAge, Int(30))
	s.AppendHistory(RoleUser, "hi", 0)
	s.Present([]string{"A"}, []string{"a"})

	c := s.Clone()
	c.Slots.Set(FieldAge, Int(31))
	c.History[0].Content = "changed"
	c.LastPresentedSchemeIDs[0] = "B"

	age, _ := s.Slots.Int(FieldAge)
	assert.Equal(t, 30, age)
	assert.Equal(t, "hi", s.History[0].Content)
	assert.Equal(t, "A", s.LastPresentedSchemeIDs[0])
}

func TestParseIntentUnknown(t *testing.T) {
	assert.Equal(t, IntentUnknown, ParseIntent("weather"))
	assert.Equal(t, IntentGreeting, ParseIntent(" Greeting "))
}
