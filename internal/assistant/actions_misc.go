package assistant

import (
	"context"
)

// answerQuestion is the passthrough action: the backend already produced
// the answer, so the handler just relays it. A missing answer falls back
// to a prompt rather than an error.
func (a *Actions) answerQuestion(ctx context.Context, p Params) Outcome {
	if text, found := p.String(textKeys...); found {
		return ok("%s", text)
	}
	return ok("What would you like to know?")
}

func (a *Actions) backupData(ctx context.Context, p Params) Outcome {
	if err := a.backup.BackupData(ctx); err != nil {
		return outcomeFromErr(err, "Backup failed.")
	}
	return ok("Backup completed successfully.")
}
