// Package protocol implements the wire envelope shared by every
// client/server event: {"event": TAG, "data": PAYLOAD?}. It is a JSON
// realization of the tagged-union shape the teacher repo expresses as
// a protobuf oneof (domain/protobuf), adapted to a tag+raw-payload pair
// since this wire protocol is JSON, not protobuf.
package protocol

import "encoding/json"

// Envelope is the shape every frame takes, in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// DecodeEnvelope parses the outer envelope only. A malformed frame
// (not valid JSON, or missing "event") is an invalid_body error; the
// caller decodes Data per the recognized Event tag.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, err
	}
	if env.Event == "" {
		return Envelope{}, errEmptyEventTag
	}
	return env, nil
}

var errEmptyEventTag = jsonError("missing event tag")

type jsonError string

func (e jsonError) Error() string { return string(e) }

// DecodeData unmarshals the envelope's Data field into dst. Structurally
// correct but semantically wrong payloads are the caller's concern
// (invalid_event_data_for_event); a json.Unmarshal failure here means
// the payload isn't even well-formed JSON for the expected shape.
func DecodeData(env Envelope, dst any) error {
	if len(env.Data) == 0 {
		return errEmptyEventTag
	}
	return json.Unmarshal(env.Data, dst)
}

// Encode builds a wire frame for the given event tag and payload. A nil
// payload omits "data" entirely, matching events like search that carry
// none.
func Encode(event string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = data
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

// EncodeError builds an error{data: code} frame.
func EncodeError(code ErrorCode) []byte {
	data, err := Encode(EventError, ErrorData{Data: code})
	if err != nil {
		// ErrorData always marshals; this would be a stdlib bug.
		panic(err)
	}
	return data
}
