package wlp

const (
	opCodeCallbackDone = 0
)

// CallbackHandler is notified when the request that created the one-shot
// callback object has been processed. The callback data is the event
// serial. The compositor destroys the callback afterwards and announces
// that through wl_display.delete_id.
type CallbackHandler interface {
	Done(sender ObjectID, callbackData uint32)
}

// CallbackEvent decodes one wl_callback event and dispatches it to h.
func CallbackEvent(h CallbackHandler, m Message) error {
	if m.Opcode != opCodeCallbackDone {
		return nil
	}
	data, err := m.ReadUint32()
	if err != nil {
		return err
	}
	h.Done(m.Sender, data)
	return nil
}
