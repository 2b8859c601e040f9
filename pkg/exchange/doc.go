// Package exchange records observed request/response exchanges for
// inspection.
//
// An Exchange pairs a traffic.Request with its response, if one was sent.
// Category and Summary derive the values an exchange list displays.
//
// Store keeps exchanges in arrival order in a bounded buffer, evicting the
// oldest when full. List filters by protocol, method, category, host glob,
// or by an interception rule, so a rule editor can preview which recorded
// traffic a rule would catch:
//
//	store := exchange.NewStore(500)
//	store.Add(&exchange.Exchange{Request: req, Response: resp})
//	hits := store.List(&exchange.Filter{Rule: rule})
package exchange
