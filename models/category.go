package models

// Category is a selectable incident classification. Standard categories are
// offered to every store; the rest only to the stores in RestrictedToStores.
type Category struct {
	ID                 string      `bson:"_id" json:"id" yaml:"id"`
	Label              string      `bson:"label" json:"label" yaml:"label"`
	Description        string      `bson:"description,omitempty" json:"description,omitempty" yaml:"description"`
	Icon               string      `bson:"icon,omitempty" json:"icon,omitempty" yaml:"icon"`
	IsStandard         bool        `bson:"isStandard" json:"isStandard" yaml:"isStandard"`
	RestrictedToStores []string    `bson:"restrictedToStores,omitempty" json:"restrictedToStores,omitempty" yaml:"restrictedToStores"`
	DisplayOrder       int         `bson:"displayOrder" json:"displayOrder" yaml:"displayOrder"`
	CreatedAt          interface{} `bson:"createdAt,omitempty" json:"createdAt,omitempty" yaml:"-"`
	UpdatedAt          interface{} `bson:"updatedAt,omitempty" json:"updatedAt,omitempty" yaml:"-"`
}

// AvailableTo reports whether the category can be selected by the given store
func (c Category) AvailableTo(storeNumber string) bool {
	if c.IsStandard {
		return true
	}
	for _, s := range c.RestrictedToStores {
		if s == storeNumber {
			return true
		}
	}
	return false
}
