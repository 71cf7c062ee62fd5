package models

// Section mengelompokkan meja untuk tampilan denah (mis. "Main hall", "Garden")
type Section struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	DisplayOrder int            `gorm:"not null;default:0" json:"display_order"`
	Tables       []SectionTable `gorm:"foreignKey:SectionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// SectionTable -> satu meja hanya boleh berada di satu section
type SectionTable struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	SectionID   uint `gorm:"not null;index" json:"section_id"`
	TableNumber int  `gorm:"not null;uniqueIndex" json:"table_number"`
}
