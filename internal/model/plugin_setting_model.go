package model

import (
	"time"

	"gorm.io/datatypes"
)

type PluginSetting struct {
	Key       string         `gorm:"type:varchar(100);primaryKey"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (PluginSetting) TableName() string {
	return "plugin_settings"
}
