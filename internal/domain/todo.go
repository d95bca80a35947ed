package domain

import "time"

// Todo is the internal record persisted in the todo table. The primary key is
// assigned by storage on insert; CreatedAt is stamped by the service, not the
// database.
type Todo struct {
	TodoID    int64     `gorm:"column:todo_id;primaryKey;autoIncrement"`
	TodoTitle string    `gorm:"column:todo_title;not null"`
	Finished  bool      `gorm:"column:finished;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

// TableName keeps the singular table name used by the schema.
func (Todo) TableName() string {
	return "todo"
}
