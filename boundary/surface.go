package boundary

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/wippyai/slotbridge/envelope"
	"github.com/wippyai/slotbridge/errors"
	"github.com/wippyai/slotbridge/handle"
	"github.com/wippyai/slotbridge/host"
)

// Status is the result of a field write.
type Status int32

const (
	StatusOK     Status = 0
	StatusFailed Status = -1
)

// Surface exposes host capabilities as boundary-safe operations.
type Surface struct {
	world host.World
	log   *zap.Logger
}

// Option configures a Surface.
type Option func(*Surface)

// WithLogger sets the logger used for failed host calls.
func WithLogger(l *zap.Logger) Option {
	return func(s *Surface) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a surface over world.
func New(world host.World, opts ...Option) *Surface {
	s := &Surface{world: world, log: Logger()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// World returns the host the surface calls into.
func (s *Surface) World() host.World {
	return s.world
}

func (s *Surface) fail(op string, h handle.Handle, err error) {
	s.log.Debug("host call failed",
		zap.String("op", op),
		zap.Uint64("handle", uint64(h)),
		zap.Error(err))
}

func (s *Surface) handleOp(op string, h handle.Handle, fn func(handle.Handle) (handle.Handle, error)) (handle.Handle, error) {
	if h.IsNull() {
		return handle.Null, nil
	}
	out, err := fn(h)
	if err != nil {
		s.fail(op, h, err)
		return handle.Null, err
	}
	return out, nil
}

func (s *Surface) RootSlot() handle.Handle {
	return s.world.RootSlot()
}

func (s *Surface) SlotGetParent(h handle.Handle) (handle.Handle, error) {
	return s.handleOp("slot.get_parent", h, s.world.SlotParent)
}

func (s *Surface) SlotGetActiveUser(h handle.Handle) (handle.Handle, error) {
	return s.handleOp("slot.get_active_user", h, s.world.SlotActiveUser)
}

func (s *Surface) SlotGetActiveUserRoot(h handle.Handle) (handle.Handle, error) {
	return s.handleOp("slot.get_active_user_root", h, s.world.SlotActiveUserRoot)
}

func (s *Surface) SlotGetObjectRoot(h handle.Handle, onlyExplicit bool) (handle.Handle, error) {
	return s.handleOp("slot.get_object_root", h, func(h handle.Handle) (handle.Handle, error) {
		return s.world.SlotObjectRoot(h, onlyExplicit)
	})
}

func (s *Surface) SlotGetName(h handle.Handle) (string, error) {
	const op = "slot.get_name"
	if h.IsNull() {
		return "", errors.NullArgument(op, "slot")
	}
	name, err := s.world.SlotName(h)
	if err != nil {
		s.fail(op, h, err)
		return "", err
	}
	return name, nil
}

func (s *Surface) SlotSetName(h handle.Handle, name string) error {
	const op = "slot.set_name"
	if h.IsNull() {
		return errors.NullArgument(op, "slot")
	}
	if err := s.world.SetSlotName(h, name); err != nil {
		s.fail(op, h, err)
		return err
	}
	return nil
}

func (s *Surface) SlotGetNumChildren(h handle.Handle) (int32, error) {
	const op = "slot.get_num_children"
	if h.IsNull() {
		return 0, errors.NullArgument(op, "slot")
	}
	n, err := s.world.SlotChildCount(h)
	if err != nil {
		s.fail(op, h, err)
		return 0, err
	}
	if n > math.MaxInt32 {
		err := errors.FailedPrecondition(op, fmt.Sprintf("%d children do not fit int32", n))
		s.fail(op, h, err)
		return 0, err
	}
	return int32(n), nil
}

func (s *Surface) SlotGetChild(h handle.Handle, index int32) (handle.Handle, error) {
	return s.handleOp("slot.get_child", h, func(h handle.Handle) (handle.Handle, error) {
		return s.world.SlotChild(h, int(index))
	})
}

// SlotFindChildByName returns the first matching descendant, or null.
// A negative maxDepth searches the whole subtree.
func (s *Surface) SlotFindChildByName(h handle.Handle, name string, matchSubstring, ignoreCase bool, maxDepth int32) (handle.Handle, error) {
	return s.handleOp("slot.find_child_by_name", h, func(h handle.Handle) (handle.Handle, error) {
		return s.world.FindChildByName(h, name, matchSubstring, ignoreCase, depth(maxDepth))
	})
}

// SlotFindChildByTag returns the first descendant with the given tag, or null.
func (s *Surface) SlotFindChildByTag(h handle.Handle, tag string, maxDepth int32) (handle.Handle, error) {
	return s.handleOp("slot.find_child_by_tag", h, func(h handle.Handle) (handle.Handle, error) {
		return s.world.FindChildByTag(h, tag, depth(maxDepth))
	})
}

func depth(maxDepth int32) int {
	if maxDepth < 0 {
		return host.Unbounded
	}
	return int(maxDepth)
}

func (s *Surface) SlotGetComponent(h handle.Handle, typeName string) (handle.Handle, error) {
	return s.handleOp("slot.get_component", h, func(h handle.Handle) (handle.Handle, error) {
		return s.world.SlotComponent(h, typeName)
	})
}

func (s *Surface) SlotGetChildren(h handle.Handle) ([]handle.Handle, error) {
	const op = "slot.get_children"
	if h.IsNull() {
		return nil, nil
	}
	out, err := s.world.SlotChildren(h)
	if err != nil {
		s.fail(op, h, err)
		return nil, err
	}
	return out, nil
}

func (s *Surface) SlotGetComponents(h handle.Handle) ([]handle.Handle, error) {
	const op = "slot.get_components"
	if h.IsNull() {
		return nil, nil
	}
	out, err := s.world.SlotComponents(h)
	if err != nil {
		s.fail(op, h, err)
		return nil, err
	}
	return out, nil
}

func (s *Surface) ComponentGetTypeName(h handle.Handle) (string, error) {
	const op = "component.get_type_name"
	if h.IsNull() {
		return "", errors.NullArgument(op, "component")
	}
	name, err := s.world.ComponentTypeName(h)
	if err != nil {
		s.fail(op, h, err)
		return "", err
	}
	return name, nil
}

// ComponentGetFieldValue returns the field's value as an envelope owned by
// the caller. A null component yields (nil, nil); every failure yields a nil
// buffer.
func (s *Surface) ComponentGetFieldValue(h handle.Handle, name string) (*envelope.Buffer, error) {
	const op = "component.get_field_value"
	if h.IsNull() {
		return nil, nil
	}
	v, err := s.world.FieldValue(h, name)
	if err != nil {
		s.fail(op, h, err)
		return nil, err
	}
	buf, err := envelope.Encode(v)
	if err != nil {
		s.fail(op, h, err)
		return nil, err
	}
	return buf, nil
}

// ComponentSetFieldValue decodes env and writes it to the named field.
func (s *Surface) ComponentSetFieldValue(h handle.Handle, name string, env []byte) Status {
	if err := s.ComponentSetFieldValueErr(h, name, env); err != nil {
		return StatusFailed
	}
	return StatusOK
}

// ComponentSetFieldValueErr is ComponentSetFieldValue returning the cause:
// host.ErrFieldNotFound, host.ErrTypeMismatch, an envelope decode error or an
// invalid handle.
func (s *Surface) ComponentSetFieldValueErr(h handle.Handle, name string, env []byte) error {
	const op = "component.set_field_value"
	if h.IsNull() {
		return errors.NullArgument(op, "component")
	}
	v, err := envelope.Decode(env)
	if err != nil {
		s.fail(op, h, err)
		return err
	}
	if _, ok := v.(envelope.Unknown); ok {
		err := host.FieldTypeMismatch(op, h, name, "", v.Tag())
		s.fail(op, h, err)
		return err
	}
	if err := s.world.SetFieldValue(h, name, v); err != nil {
		s.fail(op, h, err)
		return err
	}
	return nil
}
