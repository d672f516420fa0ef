package identity

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/gerryalvrz/psychat-solana/pkg/logger"
)

const reconcilerServiceName = "IdentityReconciler"

// Reconciler is a background worker that resolves indeterminate mint
// outcomes. A mint that timed out waiting for confirmation, or that raced a
// duplicate submission, leaves the local state pending; the reconciler polls
// the ledger until the record shows up and promotes the state to confirmed.
type Reconciler struct {
	Service  *Service
	Interval time.Duration
}

func NewReconciler(service *Service) *Reconciler {
	return &Reconciler{
		Service:  service,
		Interval: 30 * time.Second,
	}
}

func (r *Reconciler) GetServiceName() string {
	return reconcilerServiceName
}

func (r *Reconciler) StartService() {
	reconcilerLogger := logger.Default()

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for range ticker.C {
		state := r.Service.State()
		if state.Status != StatusPending {
			continue
		}

		addr, err := solana.PublicKeyFromBase58(state.Address)
		if err != nil {
			reconcilerLogger.Errorf(err, "Pending identity address %q does not parse, skipping reconcile", state.Address)
			continue
		}

		if err := r.reconcile(addr); err != nil {
			reconcilerLogger.Errorf(err, "Reconcile attempt for pending identity %s failed", state.Address)
		}
	}
}

// reconcile performs one lookup round for a pending identity record.
func (r *Reconciler) reconcile(addr solana.PublicKey) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	lookup, err := r.Service.Ledger.LookupAccount(ctx, addr)
	if err != nil {
		return err
	}
	if !lookup.Present {
		// Not landed yet, keep the pending state and try again later.
		return nil
	}

	state := IdentityState{Address: addr.String(), Status: StatusConfirmed}
	if signature, found, sigErr := r.Service.Ledger.FindSignatureForAddress(ctx, addr); sigErr == nil && found {
		state.Signature = signature.String()
	}

	r.Service.setState(state)
	r.Service.writeCache(state)
	logger.Default().Infof("Pending identity %s confirmed on chain", addr)
	return nil
}
