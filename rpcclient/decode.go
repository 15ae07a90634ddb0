package rpcclient

import (
	"github.com/iov-one/splitter/client"
	"github.com/iov-one/splitter/errors"
	"github.com/stellar/go/xdr"
)

func decodeScVal(b64 string) (*xdr.ScVal, error) {
	var v xdr.ScVal
	if err := xdr.SafeUnmarshalBase64(b64, &v); err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "scval: %s", err)
	}
	return &v, nil
}

// hostErrorOf returns the first error raised by the contract host among
// given diagnostic events.
func hostErrorOf(events []xdr.DiagnosticEvent) *xdr.ScError {
	for _, ev := range events {
		body, ok := ev.Event.Body.GetV0()
		if !ok {
			continue
		}
		for _, topic := range body.Topics {
			if e, ok := topic.GetError(); ok {
				return &e
			}
		}
		if e, ok := body.Data.GetError(); ok {
			return &e
		}
	}
	return nil
}

func decodeDiagnosticEvents(b64s []string) ([]xdr.DiagnosticEvent, error) {
	events := make([]xdr.DiagnosticEvent, 0, len(b64s))
	for i, raw := range b64s {
		var ev xdr.DiagnosticEvent
		if err := xdr.SafeUnmarshalBase64(raw, &ev); err != nil {
			return nil, errors.Wrapf(errors.ErrEncoding, "diagnostic event %d: %s", i, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// resultReason returns the structured reason of a transaction result.
func resultReason(b64 string) (*client.Reason, error) {
	var res xdr.TransactionResult
	if err := xdr.SafeUnmarshalBase64(b64, &res); err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "transaction result: %s", err)
	}
	code := res.Result.Code
	reason := &client.Reason{Result: &code}
	if ops, ok := res.Result.GetResults(); ok && len(ops) == 1 {
		if tr, ok := ops[0].GetTr(); ok {
			if ih, ok := tr.GetInvokeHostFunctionResult(); ok {
				opCode := ih.Code
				reason.Operation = &opCode
			}
		}
	}
	return reason, nil
}

// metaOutcome returns the return value and the host error recorded in the
// metadata of an executed transaction.
func metaOutcome(b64 string) (*xdr.ScVal, *xdr.ScError, error) {
	var meta xdr.TransactionMeta
	if err := xdr.SafeUnmarshalBase64(b64, &meta); err != nil {
		return nil, nil, errors.Wrapf(errors.ErrEncoding, "transaction meta: %s", err)
	}
	v3, ok := meta.GetV3()
	if !ok || v3.SorobanMeta == nil {
		return nil, nil, nil
	}
	hostErr := hostErrorOf(v3.SorobanMeta.DiagnosticEvents)
	ret := v3.SorobanMeta.ReturnValue
	if ret.Type == xdr.ScValTypeScvVoid {
		return nil, hostErr, nil
	}
	return &ret, hostErr, nil
}
