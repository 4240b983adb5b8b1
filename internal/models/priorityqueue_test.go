package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commutesg/routecore/internal/models"
)

func TestPriorityQueue_PopsAscending(t *testing.T) {
	pq := models.NewPriorityQueue()
	pq.Push("C", 30)
	pq.Push("A", 10)
	pq.Push("B", 20)

	var order []models.NodeID
	for pq.Len() > 0 {
		el, _, ok := pq.Pop()
		assert.True(t, ok)
		order = append(order, el)
	}

	assert.Equal(t, []models.NodeID{"A", "B", "C"}, order)
}

func TestPriorityQueue_EmptyPopNotOK(t *testing.T) {
	pq := models.NewPriorityQueue()
	_, _, ok := pq.Pop()
	assert.False(t, ok)
}

func TestPriorityQueue_DuplicateEntriesAllowed(t *testing.T) {
	// No dedup is promised: pushing the same element twice with different
	// priorities keeps both entries, and the smaller priority pops first.
	pq := models.NewPriorityQueue()
	pq.Push("A", 50)
	pq.Push("A", 5)
	assert.Equal(t, 2, pq.Len())

	el, p, ok := pq.Pop()
	assert.True(t, ok)
	assert.Equal(t, models.NodeID("A"), el)
	assert.Equal(t, float64(5), p)
	assert.Equal(t, 1, pq.Len())
}
