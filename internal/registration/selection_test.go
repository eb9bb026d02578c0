package registration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalbooks/internal/upstream"
)

func testPractices() []upstream.Practice {
	return []upstream.Practice{
		{
			ID:   1,
			Name: "Civil Law",
			Specializations: []upstream.Specialization{
				{ID: 101, Name: "Property Disputes"},
				{ID: 102, Name: "Contract Disputes"},
			},
		},
		{
			ID:   2,
			Name: "Criminal Law",
			Specializations: []upstream.Specialization{
				{ID: 201, Name: "Bail Matters"},
				{ID: 202, Name: "Trial Defense"},
				{ID: 203, Name: "Appeals"},
			},
		},
		{
			ID:              3,
			Name:            "Tax Law",
			Specializations: nil,
		},
	}
}

func TestTogglePracticeSelectsChildren(t *testing.T) {
	s := NewSelection(testPractices(), nil, 0)

	require.NoError(t, s.TogglePractice(1))
	assert.ElementsMatch(t, []int{1, 101, 102}, s.IDs())
	assert.True(t, s.IsPracticeSelected(testPractices()[0]))

	require.NoError(t, s.TogglePractice(1))
	assert.Empty(t, s.IDs())
}

func TestTogglePracticeWithoutSpecializations(t *testing.T) {
	s := NewSelection(testPractices(), nil, 0)

	require.NoError(t, s.TogglePractice(3))
	assert.Equal(t, []int{3}, s.IDs())
	assert.True(t, s.IsPracticeSelected(testPractices()[2]))
}

func TestTogglePracticeUnknownID(t *testing.T) {
	s := NewSelection(testPractices(), nil, 0)
	assert.Error(t, s.TogglePractice(99))
}

func TestToggleSpecializationMaintainsParent(t *testing.T) {
	s := NewSelection(testPractices(), nil, 0)

	require.NoError(t, s.ToggleSpecialization(101))
	assert.ElementsMatch(t, []int{101}, s.IDs())
	assert.False(t, s.IsPracticeSelected(testPractices()[0]), "partial selection leaves the parent unchecked")

	// Completing the set pulls the parent in.
	require.NoError(t, s.ToggleSpecialization(102))
	assert.ElementsMatch(t, []int{1, 101, 102}, s.IDs())
	assert.True(t, s.IsPracticeSelected(testPractices()[0]))

	// Removing any child removes the parent too.
	require.NoError(t, s.ToggleSpecialization(101))
	assert.ElementsMatch(t, []int{102}, s.IDs())
	assert.False(t, s.IsPracticeSelected(testPractices()[0]))
}

func TestTogglePracticeFromPartialSelection(t *testing.T) {
	s := NewSelection(testPractices(), nil, 0)

	require.NoError(t, s.ToggleSpecialization(201))

	// With a partial set, toggling the practice completes the selection
	// rather than clearing it.
	require.NoError(t, s.TogglePractice(2))
	assert.ElementsMatch(t, []int{2, 201, 202, 203}, s.IDs())
}

func TestNewSelectionAutoIncludesPrimary(t *testing.T) {
	s := NewSelection(testPractices(), []int{3}, 1)
	assert.ElementsMatch(t, []int{3, 1, 101, 102}, s.IDs())
}

func TestNewSelectionDeduplicates(t *testing.T) {
	s := NewSelection(testPractices(), []int{1, 101, 1, 101}, 1)
	assert.ElementsMatch(t, []int{1, 101, 102}, s.IDs())
}

func TestClear(t *testing.T) {
	s := NewSelection(testPractices(), nil, 0)
	require.NoError(t, s.TogglePractice(1))
	require.NoError(t, s.TogglePractice(2))

	s.Clear()
	assert.Empty(t, s.IDs())
}

func TestSummaryOrderAndJoin(t *testing.T) {
	s := NewSelection(testPractices(), nil, 0)
	require.NoError(t, s.ToggleSpecialization(201))
	require.NoError(t, s.TogglePractice(3))

	// Practice names lead, specialization names follow, in catalog order.
	assert.Equal(t, "Tax Law; Bail Matters", s.Summary(5))
}

func TestSummaryTruncation(t *testing.T) {
	s := NewSelection(testPractices(), nil, 0)
	require.NoError(t, s.TogglePractice(1))
	require.NoError(t, s.TogglePractice(2))

	got := s.Summary(3)
	assert.Equal(t, "Civil Law; Criminal Law; Property Disputes and 4 more", got)
}

func TestSummaryDefaultWhenMaxNotPositive(t *testing.T) {
	s := NewSelection(testPractices(), nil, 0)
	require.NoError(t, s.TogglePractice(1))
	require.NoError(t, s.TogglePractice(2))

	// 7 selected names against the default cap of 5.
	got := s.Summary(0)
	assert.Equal(t, "Civil Law; Criminal Law; Property Disputes; Contract Disputes; Bail Matters and 2 more", got)
}

func TestCommitReturnsIDsAndSummary(t *testing.T) {
	s := NewSelection(testPractices(), nil, 0)
	require.NoError(t, s.TogglePractice(3))

	ids, summary := s.Commit(5)
	assert.Equal(t, []int{3}, ids)
	assert.Equal(t, "Tax Law", summary)
}
