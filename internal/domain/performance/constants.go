package performance

const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"

	AppraisalStatusDraft     = "draft"
	AppraisalStatusCompleted = "completed"

	RelationshipManager     = "manager"
	RelationshipPeer        = "peer"
	RelationshipSubordinate = "subordinate"
	RelationshipSelf        = "self"
)

// FeedbackRelationships is the display order of 360° feedback groups.
var FeedbackRelationships = []string{
	RelationshipManager,
	RelationshipPeer,
	RelationshipSubordinate,
	RelationshipSelf,
}
