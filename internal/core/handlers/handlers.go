// Package handlers contains the domain command handlers shipped with the
// engine: loan disbursement and repayment, savings movements, account
// lifecycle and entry set reversal. Each handler registers for one
// (entity, action) pair and runs inside the coordinator's transaction.
package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/nimbusfin/coreledger/internal/apperrors"
	"github.com/nimbusfin/coreledger/internal/core/domain"
	portssvc "github.com/nimbusfin/coreledger/internal/core/ports/services"
)

// decodePayload unmarshals a command payload into the handler's typed payload
// struct. Malformed payloads are validation failures, terminal for the command.
func decodePayload(cmd domain.Command, v any) error {
	if len(cmd.Payload) == 0 {
		return fmt.Errorf("%w: payload is required for %s/%s", apperrors.ErrValidation, cmd.Entity, cmd.Action)
	}
	if err := json.Unmarshal(cmd.Payload, v); err != nil {
		return fmt.Errorf("%w: malformed payload: %v", apperrors.ErrValidation, err)
	}
	return nil
}

// RegisterAll binds every built-in handler to the registry.
func RegisterAll(registry portssvc.HandlerRegistry, ledgerSvc portssvc.LedgerSvcFacade) {
	registry.Register("LOAN", "DISBURSE", NewLoanDisburseHandler())
	registry.Register("LOAN", "REPAY", NewLoanRepayHandler())
	registry.Register("SAVINGS", "DEPOSIT", NewSavingsDepositHandler())
	registry.Register("SAVINGS", "WITHDRAW", NewSavingsWithdrawHandler())
	registry.Register("ACCOUNT", "OPEN", NewAccountOpenHandler(ledgerSvc))
	registry.Register("ACCOUNT", "CLOSE", NewAccountCloseHandler(ledgerSvc))
	registry.Register("LEDGER", "REVERSE", NewReversalHandler(ledgerSvc))
}
