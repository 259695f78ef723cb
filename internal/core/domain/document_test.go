package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordID(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, RecordID("a/b.pdf"), RecordID("a/b.pdf"))
	})

	t.Run("distinct per path", func(t *testing.T) {
		assert.NotEqual(t, RecordID("a.pdf"), RecordID("b.pdf"))
	})

	t.Run("fixed length hex", func(t *testing.T) {
		id := RecordID("whatever.pdf")
		assert.Len(t, id, 32)
		assert.Regexp(t, "^[0-9a-f]+$", id)
	})
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid(), "category %q", c)
	}
	assert.False(t, Category("Cooking").Valid())
	assert.False(t, Category("").Valid())
}

func TestDifficultyValid(t *testing.T) {
	for _, d := range Difficulties() {
		assert.True(t, d.Valid(), "difficulty %q", d)
	}
	assert.False(t, Difficulty("Impossible").Valid())
}

func TestChangeSetQueueAndEmpty(t *testing.T) {
	assert.True(t, ChangeSet{}.Empty())

	cs := ChangeSet{
		New:      []FileState{{Path: "n.pdf"}},
		Modified: []FileState{{Path: "m.pdf"}},
	}
	assert.False(t, cs.Empty())

	queue := cs.Queue()
	assert.Equal(t, []string{"n.pdf", "m.pdf"}, []string{queue[0].Path, queue[1].Path})
}

func TestOutcomeKindString(t *testing.T) {
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "fallback", OutcomeFallback.String())
	assert.Equal(t, "skipped", OutcomeSkipped.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
}
