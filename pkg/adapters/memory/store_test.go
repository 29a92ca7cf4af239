package memory_test

import (
	"testing"

	"github.com/aretw0/tendero/pkg/adapters/memory"
	"github.com/aretw0/tendero/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, memory.NewStore())
}

func TestMemoryLedger_Contract(t *testing.T) {
	ports.RunLedgerContract(t, memory.NewLedger())
}

func TestMemoryLedger_AccountRegistryContract(t *testing.T) {
	ports.RunAccountRegistryContract(t, memory.NewLedger())
}
