package cachewarm

import "time"

// TopicMappingCreated carries events emitted after a mapping becomes durable.
const TopicMappingCreated = "mapping.created"

// MappingCreatedEvent announces a newly persisted mapping so sibling
// instances can warm their caches before the first resolve arrives.
type MappingCreatedEvent struct {
	Code      string    `json:"code"`
	LongURL   string    `json:"longUrl"`
	CreatedAt time.Time `json:"createdAt"`
}
