package model

// wire records returned by the backend API
// pointers are used so a missing or null field can be told apart from an empty string

type TechnologyRecord struct {
	Name  *string `json:"name" validate:"required"`
	Badge *string `json:"badge" validate:"required"`
}

func (r TechnologyRecord) ToModel() Technology {
	return Technology{Name: *r.Name, Badge: *r.Badge}
}

type LearningItemRecord struct {
	Name   *string `json:"name" validate:"required"`
	Badge  *string `json:"badge" validate:"required"`
	Reason *string `json:"reason" validate:"required"`
}

func (r LearningItemRecord) ToModel() LearningItem {
	return LearningItem{Name: *r.Name, Badge: *r.Badge, Reason: *r.Reason}
}

type ProjectRecord struct {
	Name     *string `json:"name" validate:"required"`
	Username *string `json:"username" validate:"required"`
	URL      *string `json:"url" validate:"required"`
}

func (r ProjectRecord) ToModel() Project {
	return Project{Name: *r.Name, Username: *r.Username, URL: *r.URL}
}
