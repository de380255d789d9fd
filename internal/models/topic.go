package models

type Topic struct {
	ID        string   `bson:"_id,omitempty" json:"id"`
	Name      string   `bson:"name" json:"name"`
	SubTopics []string `bson:"sub_topics" json:"sub_topics"`
}
