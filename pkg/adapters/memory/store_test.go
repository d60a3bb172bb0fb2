package memory_test

import (
	"testing"

	"github.com/aretw0/flowboard/pkg/adapters/memory"
	"github.com/aretw0/flowboard/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunGraphStoreContract(t, store)
}
