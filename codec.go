package gringotts

import (
	"reflect"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/iov-one/gringotts/errors"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	// Core deterministic encoding, so that the same state always produces
	// the same bytes and the same commit hash.
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	decOpts := cbor.DecOptions{
		DupMapKey:       cbor.DupMapKeyEnforcedAPF,
		MaxNestedLevels: 32,
	}
	if decMode, err = decOpts.DecMode(); err != nil {
		panic(err)
	}
}

// Marshal serializes given value using the canonical binary encoding of the
// vault. All models, messages and transactions are encoded this way.
func Marshal(v interface{}) ([]byte, error) {
	raw, err := encMode.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot encode %T: %s", v, err)
	}
	return raw, nil
}

// Unmarshal loads the binary representation into the value pointed by v.
func Unmarshal(raw []byte, v interface{}) error {
	if err := decMode.Unmarshal(raw, v); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot decode %T: %s", v, err)
	}
	return nil
}

// Envelope is the serialized form of a message: its path and its encoded
// body. Self-calls carry an Envelope so that the host can route them as any
// other message.
type Envelope struct {
	_    struct{} `cbor:",toarray"`
	Path string
	Body cbor.RawMessage
}

// Validate returns an error if the envelope cannot be routed.
func (e Envelope) Validate() error {
	if !isPath(e.Path) {
		return errors.Wrapf(errors.ErrMsg, "invalid path %q", e.Path)
	}
	if len(e.Body) == 0 {
		return errors.Wrap(errors.ErrEmpty, "body")
	}
	return nil
}

// MsgCodec knows all message types by their path and converts them from and
// to an Envelope.
type MsgCodec struct {
	types map[string]reflect.Type
}

// NewMsgCodec returns a codec with no message types registered.
func NewMsgCodec() *MsgCodec {
	return &MsgCodec{types: make(map[string]reflect.Type)}
}

// Register adds the type of given message. The message must be a pointer to
// a struct. Registering a path twice panics.
func (c *MsgCodec) Register(m Msg) {
	path := m.Path()
	if !isPath(path) {
		panic("invalid message path: " + path)
	}
	t := reflect.TypeOf(m)
	if t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct {
		panic("message must be a pointer to a struct: " + path)
	}
	if prev, ok := c.types[path]; ok && prev != t {
		panic("message path already registered: " + path)
	}
	c.types[path] = t
}

// Paths returns all registered paths in alphabetical order.
func (c *MsgCodec) Paths() []string {
	paths := make([]string, 0, len(c.types))
	for p := range c.types {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// New returns a new, zero value instance of the message registered under
// given path.
func (c *MsgCodec) New(path string) (Msg, error) {
	t, ok := c.types[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "message path %q", path)
	}
	return reflect.New(t.Elem()).Interface().(Msg), nil
}

// Wrap encodes given message into an envelope.
func (c *MsgCodec) Wrap(m Msg) (Envelope, error) {
	return WrapMsg(m)
}

// Unwrap decodes and validates the message carried by an envelope.
func (c *MsgCodec) Unwrap(e Envelope) (Msg, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	m, err := c.New(e.Path)
	if err != nil {
		return nil, err
	}
	if err := Unmarshal(e.Body, m); err != nil {
		return nil, errors.Wrapf(err, "message %q", e.Path)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrapf(err, "message %q", e.Path)
	}
	return m, nil
}

// WrapMsg encodes given message into an envelope. It does not require the
// message type to be registered; extensions use it to build self-calls.
func WrapMsg(m Msg) (Envelope, error) {
	if err := m.Validate(); err != nil {
		return Envelope{}, errors.Wrapf(err, "message %q", m.Path())
	}
	body, err := Marshal(m)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Path: m.Path(), Body: body}, nil
}
