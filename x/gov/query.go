package gov

import (
	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
)

// registerProposalQuery registers /proposals. Returned proposals carry the
// status computed at the last block instead of the stored one.
func registerProposalQuery(qr gringotts.QueryRouter, b *ProposalBucket) {
	qr.Register("/proposals", gringotts.QueryFunc(func(db gringotts.ReadOnlyKVStore, mod string, data []byte) ([]gringotts.Model, error) {
		models, err := b.Query(db, mod, data)
		if err != nil {
			return nil, err
		}
		height, now, err := gringotts.LastBlock(db)
		switch {
		case errors.ErrNotFound.Is(err):
			return models, nil
		case err != nil:
			return nil, err
		}
		for i, m := range models {
			var p Proposal
			if err := gringotts.Unmarshal(m.Value, &p); err != nil {
				return nil, errors.Wrapf(err, "proposal %q", m.Key)
			}
			p.Status = p.CurrentStatus(height, now)
			raw, err := gringotts.Marshal(&p)
			if err != nil {
				return nil, err
			}
			models[i].Value = raw
		}
		return models, nil
	}))
}
