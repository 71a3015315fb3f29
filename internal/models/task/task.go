package task

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Task struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty" db:"id"`
	Email       string             `json:"email" bson:"email" db:"email"`
	Title       string             `json:"title" bson:"title" db:"title"`
	Description string             `json:"description" bson:"description" db:"description"`
	Category    Category           `json:"category" bson:"category" db:"category"`
	Timestamp   time.Time          `json:"timestamp" bson:"timestamp" db:"timestamp"`
	Position    *int               `json:"position,omitempty" bson:"position,omitempty" db:"position"`
}

type Category string

const CategoryToDo Category = "To-Do"
const CategoryInProgress Category = "In Progress"
const CategoryDone Category = "Done"

// порядок важен: в нём же отдаётся список флагов
var KnownCategories = []Category{CategoryToDo, CategoryInProgress, CategoryDone}

type CategoryFlag struct {
	Name   Category `json:"name"`
	Active bool     `json:"active"`
}

// Flags строит производное представление категории. Неизвестное значение даёт все флаги false.
func (c Category) Flags() []CategoryFlag {
	flags := make([]CategoryFlag, len(KnownCategories))
	for i, known := range KnownCategories {
		flags[i] = CategoryFlag{Name: known, Active: known == c}
	}
	return flags
}

func (c Category) IsKnown() bool {
	for _, known := range KnownCategories {
		if known == c {
			return true
		}
	}
	return false
}

// FromFlags возвращает имя первого активного флага или пустую категорию.
func FromFlags(flags []CategoryFlag) Category {
	for _, f := range flags {
		if f.Active {
			return f.Name
		}
	}
	return ""
}
