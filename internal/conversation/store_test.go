package conversation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charantamarapu/llama4aibot/internal/models"
)

func TestHistoryUnseenUserIsEmpty(t *testing.T) {
	s := NewStore()
	assert.Empty(t, s.History(42))
}

func TestAppendPreservesInsertionOrder(t *testing.T) {
	s := NewStore()
	s.Append(1, models.RoleUser, "first")
	s.Append(1, models.RoleAssistant, "second")
	s.Append(1, models.RoleUser, "third")

	got := s.History(1)
	require.Len(t, got, 3)
	assert.Equal(t, models.Turn{Role: models.RoleUser, Content: "first"}, got[0])
	assert.Equal(t, models.Turn{Role: models.RoleAssistant, Content: "second"}, got[1])
	assert.Equal(t, models.Turn{Role: models.RoleUser, Content: "third"}, got[2])
}

func TestAppendDropsOldestBeyondCap(t *testing.T) {
	s := NewStore()
	for i := 0; i < MaxTurns+1; i++ {
		s.Append(7, models.RoleUser, fmt.Sprintf("msg-%d", i))
		require.LessOrEqual(t, len(s.History(7)), MaxTurns)
	}

	got := s.History(7)
	require.Len(t, got, MaxTurns)
	// msg-0 fell off the front; msg-1..msg-10 remain in order.
	assert.Equal(t, "msg-1", got[0].Content)
	assert.Equal(t, fmt.Sprintf("msg-%d", MaxTurns), got[MaxTurns-1].Content)
	for _, turn := range got {
		assert.NotEqual(t, "msg-0", turn.Content)
	}
}

func TestClearEmptiesHistory(t *testing.T) {
	s := NewStore()
	s.Append(3, models.RoleUser, "hello")
	s.Append(3, models.RoleAssistant, "hi")

	s.Clear(3)
	assert.Empty(t, s.History(3))

	// Clearing an unseen user is a no-op, not an error.
	s.Clear(9999)
	assert.Empty(t, s.History(9999))
}

func TestHistoryReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Append(5, models.RoleUser, "original")

	got := s.History(5)
	got[0].Content = "mutated"

	assert.Equal(t, "original", s.History(5)[0].Content)
}

func TestConcurrentUsersDoNotInterfere(t *testing.T) {
	s := NewStore()
	const perUser = 50

	var wg sync.WaitGroup
	for user := int64(1); user <= 8; user++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			for i := 0; i < perUser; i++ {
				s.Append(id, models.RoleUser, fmt.Sprintf("u%d-%d", id, i))
			}
		}(user)
	}
	wg.Wait()

	for user := int64(1); user <= 8; user++ {
		got := s.History(user)
		require.Len(t, got, MaxTurns)
		for _, turn := range got {
			assert.Contains(t, turn.Content, fmt.Sprintf("u%d-", user))
		}
	}
}

func TestConcurrentAppendsSameUserStayBounded(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				s.Append(1, models.RoleUser, fmt.Sprintf("g%d-%d", g, i))
			}
		}(g)
	}
	wg.Wait()

	assert.Len(t, s.History(1), MaxTurns)
}
