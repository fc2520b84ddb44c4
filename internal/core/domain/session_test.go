package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionView_Annotation(t *testing.T) {
	view := SessionView{
		Annotations: []Annotation{
			{ID: "a1", QuestionID: "q1", DocumentID: "d1", RelevancyScore: 2},
			{ID: "a2", QuestionID: "q1", DocumentID: "d2", RelevancyScore: 0},
		},
	}

	ann := view.Annotation("q1", "d2")
	require.NotNil(t, ann)
	assert.Equal(t, "a2", ann.ID)

	assert.Nil(t, view.Annotation("q2", "d1"))
}

func TestSessionView_Clone_Independent(t *testing.T) {
	view := &SessionView{
		ID: "s1",
		DocumentSample: DocumentSample{
			ID:        "sample-1",
			Documents: []Document{{ID: "d1"}},
		},
		Questions:   []Question{{ID: "q1"}},
		Annotations: []Annotation{{ID: "a1", QuestionID: "q1", DocumentID: "d1"}},
	}

	clone := view.Clone()
	require.NotNil(t, clone)

	// Mutating the clone must not leak into the original.
	clone.Annotations[0].RelevancyScore = 3
	clone.Questions[0].Text = "changed"
	clone.DocumentSample.Documents[0].Title = "changed"

	assert.Equal(t, RelevancyScore(0), view.Annotations[0].RelevancyScore)
	assert.Empty(t, view.Questions[0].Text)
	assert.Empty(t, view.DocumentSample.Documents[0].Title)
}

func TestSessionView_Clone_Nil(t *testing.T) {
	var view *SessionView
	assert.Nil(t, view.Clone())
}

func TestRelevancyScore_IsValid(t *testing.T) {
	assert.True(t, RelevancyScore(0).IsValid())
	assert.True(t, RelevancyScore(3).IsValid())
	assert.False(t, RelevancyScore(-1).IsValid())
	assert.False(t, RelevancyScore(4).IsValid())
}

func TestEnums_IsValid(t *testing.T) {
	assert.True(t, ContentTypeGuide.IsValid())
	assert.True(t, ContentTypeReference.IsValid())
	assert.True(t, ContentTypeTroubleshooting.IsValid())
	assert.False(t, ContentType("blog").IsValid())

	assert.True(t, QuestionTypeAnswerable.IsValid())
	assert.True(t, QuestionTypeNonAnswerable.IsValid())
	assert.False(t, QuestionType("rhetorical").IsValid())

	assert.True(t, QuestionStatusPending.IsValid())
	assert.True(t, QuestionStatusAccepted.IsValid())
	assert.True(t, QuestionStatusRejected.IsValid())
	assert.False(t, QuestionStatus("archived").IsValid())

	assert.True(t, QuestionOriginLLM.IsValid())
	assert.True(t, QuestionOriginManual.IsValid())
	assert.False(t, QuestionOrigin("oracle").IsValid())
}
