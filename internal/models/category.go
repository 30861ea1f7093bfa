package models

// UncategorizedName is what an unresolved category reference renders as.
const UncategorizedName = "未分类"

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ImageName   string `json:"imageName"`
	Description string `json:"description,omitempty"`
}
