package persistence

import (
	"time"
)

// EventLogModel represents the event_logs table
type EventLogModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	RunID     string    `gorm:"column:run_id;not null;index:idx_event_logs_run"`
	PlayerID  int       `gorm:"column:player_id;not null;default:0;index"`
	Tick      int64     `gorm:"column:tick;not null;default:0"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index:idx_event_logs_run"`
	Level     string    `gorm:"column:level;not null;default:'INFO'"`
	Message   string    `gorm:"column:message;type:text;not null"`
	Metadata  string    `gorm:"column:metadata;type:text"` // JSON as text
}

func (EventLogModel) TableName() string {
	return "event_logs"
}

// PlayerSnapshotModel represents the player_snapshots table.
// One row per player per save; the newest tick wins on load.
type PlayerSnapshotModel struct {
	ID            int       `gorm:"column:id;primaryKey;autoIncrement"`
	PlayerID      int       `gorm:"column:player_id;not null;index:idx_player_snapshots_player_tick"`
	Name          string    `gorm:"column:name;not null"`
	Tick          int64     `gorm:"column:tick;not null;index:idx_player_snapshots_player_tick"`
	Population    int       `gorm:"column:population;not null;default:0"`
	MaxPopulation int       `gorm:"column:max_population;not null;default:0"`
	Resources     string    `gorm:"column:resources;type:text"`   // JSON object resource -> quantity
	Researched    string    `gorm:"column:researched;type:text"`  // JSON array
	UnitCounts    string    `gorm:"column:unit_counts;type:text"` // JSON object name -> count
	CreatedAt     time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (PlayerSnapshotModel) TableName() string {
	return "player_snapshots"
}
