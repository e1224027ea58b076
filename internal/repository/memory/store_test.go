package memory

import (
	"testing"

	"todo_webapp/internal/repository"
	"todo_webapp/internal/repository/repotest"
)

func TestStoreContract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.TodoRepository {
		return New()
	}, "424242")
}
