package repositories

import "SafeTube/models"

type ParentRepository interface {
	FindByID(id uint) (models.Parent, error)
	FindByFirebaseUID(firebaseUID string) (models.Parent, error)
	Save(parent models.Parent) error
}
