package routing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commutesg/routecore/internal/models"
	"github.com/commutesg/routecore/internal/routing"
)

func TestServiceClassifier_Classify(t *testing.T) {
	c := routing.NewServiceClassifier()

	tests := []struct {
		service  string
		expected models.Kind
	}{
		{"WALK", models.KindWalk},
		{"NSL", models.KindMRT},
		{"EWL12", models.KindMRT},
		{"CCL", models.KindMRT},
		{"BPLrt", models.KindLRT},
		{"SKLrt1", models.KindLRT},
		{"SomethingLRT", models.KindLRT},
		{"10", models.KindBus},
		{"851", models.KindBus},
	}

	for _, tt := range tests {
		t.Run(tt.service, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(tt.service))
		})
	}
}

func TestServiceClassifier_MRTPrefixBeforeLRTSubstring(t *testing.T) {
	c := routing.NewServiceClassifier()
	// Starts with an MRT prefix; must win even though the code also
	// contains the "LRT" marker.
	assert.Equal(t, models.KindMRT, c.Classify("NELxLRTextension"))
}
