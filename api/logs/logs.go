// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logs

import (
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/vechain/ethdev/api/utils"
	"github.com/vechain/ethdev/chain"
	"github.com/vechain/ethdev/logdb"
)

type Logs struct {
	repo  *chain.Repository
	db    *logdb.LogDB
	limit uint64
}

func New(repo *chain.Repository, db *logdb.LogDB, logsLimit uint64) *Logs {
	return &Logs{
		repo,
		db,
		logsLimit,
	}
}

func (l *Logs) convertRange(rng *Range) (*logdb.Range, error) {
	best := l.repo.BestNumber()
	out := &logdb.Range{To: best}
	if rng == nil {
		return out, nil
	}
	if rng.From != nil {
		out.From = uint64(*rng.From)
	}
	if rng.To != nil {
		out.To = min(uint64(*rng.To), best)
	}
	if rng.From != nil && rng.To != nil && *rng.From > *rng.To {
		return nil, utils.BadRequest(errors.New("range.to must be greater than or equal to range.from"))
	}
	return out, nil
}

func (l *Logs) convertOptions(opts *Options) (*logdb.Options, error) {
	if opts == nil {
		// one more than the limit to detect oversize results
		return &logdb.Options{Limit: l.limit + 1}, nil
	}
	if opts.Limit > l.limit {
		return nil, utils.HTTPError(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", l.limit), http.StatusForbidden)
	}
	return &logdb.Options{Offset: opts.Offset, Limit: opts.Limit}, nil
}

func parseOrder(order logdb.Order) error {
	if order != "" && order != logdb.ASC && order != logdb.DESC {
		return utils.BadRequest(errors.New("order: should be asc or desc"))
	}
	return nil
}

func (l *Logs) checkSize(n int) error {
	if uint64(n) > l.limit {
		return utils.HTTPError(fmt.Errorf("the number of filtered logs exceeds the maximum allowed value of %d, please use pagination", l.limit), http.StatusForbidden)
	}
	return nil
}

func (l *Logs) handleFilterEvents(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := parseOrder(filter.Order); err != nil {
		return err
	}
	rng, err := l.convertRange(filter.Range)
	if err != nil {
		return err
	}
	opts, err := l.convertOptions(filter.Options)
	if err != nil {
		return err
	}
	criteriaSet := make([]*logdb.EventCriteria, 0, len(filter.CriteriaSet))
	for i, c := range filter.CriteriaSet {
		if c == nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
		criteriaSet = append(criteriaSet, &logdb.EventCriteria{
			Address: c.Address,
			Topics:  [4]*common.Hash{c.Topic0, c.Topic1, c.Topic2, c.Topic3},
		})
	}

	events, err := l.db.FilterEvents(req.Context(), &logdb.EventFilter{
		CriteriaSet: criteriaSet,
		Range:       rng,
		Options:     opts,
		Order:       filter.Order,
	})
	if err != nil {
		return err
	}
	if err := l.checkSize(len(events)); err != nil {
		return err
	}
	out := make([]*FilteredEvent, len(events))
	for i, e := range events {
		out[i] = convertEvent(e)
	}
	return utils.WriteJSON(w, out)
}

func (l *Logs) handleFilterTransfers(w http.ResponseWriter, req *http.Request) error {
	var filter TransferFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := parseOrder(filter.Order); err != nil {
		return err
	}
	rng, err := l.convertRange(filter.Range)
	if err != nil {
		return err
	}
	opts, err := l.convertOptions(filter.Options)
	if err != nil {
		return err
	}
	criteriaSet := make([]*logdb.TransferCriteria, 0, len(filter.CriteriaSet))
	for i, c := range filter.CriteriaSet {
		if c == nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
		criteriaSet = append(criteriaSet, &logdb.TransferCriteria{
			Sender:    c.Sender,
			Recipient: c.Recipient,
		})
	}

	transfers, err := l.db.FilterTransfers(req.Context(), &logdb.TransferFilter{
		TxHash:      filter.TxHash,
		CriteriaSet: criteriaSet,
		Range:       rng,
		Options:     opts,
		Order:       filter.Order,
	})
	if err != nil {
		return err
	}
	if err := l.checkSize(len(transfers)); err != nil {
		return err
	}
	out := make([]*FilteredTransfer, len(transfers))
	for i, t := range transfers {
		out[i] = convertTransfer(t)
	}
	return utils.WriteJSON(w, out)
}

func (l *Logs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/event").
		Methods(http.MethodPost).
		Name("logs_filter_event").
		HandlerFunc(utils.WrapHandlerFunc(l.handleFilterEvents))
	sub.Path("/transfer").
		Methods(http.MethodPost).
		Name("logs_filter_transfer").
		HandlerFunc(utils.WrapHandlerFunc(l.handleFilterTransfers))
}
