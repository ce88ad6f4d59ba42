// Package wayland speaks enough of the Wayland wire protocol to drive
// zwlr_data_control_v1: owning the clipboard with a multi-format data
// source, and reading the current selection without a window.
package wayland

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
)

// ErrNoSelection reports that no client currently owns the clipboard.
var ErrNoSelection = errors.New("wayland: clipboard is empty")

// bindGlobals requests the registry, collects globals, and binds wl_seat
// and zwlr_data_control_manager_v1.
func bindGlobals(c *conn) error {
	if err := c.sendMsg(idDisplay, 1 /*get_registry*/, encodeUint32(idRegistry)); err != nil {
		return err
	}
	if err := c.sendMsg(idDisplay, 0 /*sync*/, encodeUint32(idCallback1)); err != nil {
		return err
	}

	var seatName, dcManagerName uint32
	var seatFound, dcManagerFound bool

collect:
	for {
		objectID, opcode, payload, fd, err := c.readMsg()
		if err != nil {
			return err
		}
		if fd >= 0 {
			syscall.Close(fd) //nolint:errcheck
		}

		switch {
		case objectID == idRegistry && opcode == 0 /*global*/ :
			if len(payload) < 4 {
				continue
			}
			name := le.Uint32(payload[:4])
			iface, _, decErr := decodeString(payload[4:])
			if decErr != nil {
				continue
			}
			switch iface {
			case "wl_seat":
				seatName = name
				seatFound = true
			case "zwlr_data_control_manager_v1":
				dcManagerName = name
				dcManagerFound = true
			}

		case objectID == idCallback1 && opcode == 0 /*done*/ :
			break collect
		}
	}

	if !seatFound {
		return fmt.Errorf("wayland: wl_seat not found")
	}
	if !dcManagerFound {
		return fmt.Errorf("wayland: zwlr_data_control_manager_v1 not found (compositor may not support wlr-data-control)")
	}

	// wl_registry.bind new_id encodes inline: [name][interface string][version][new_id]
	if err := c.sendMsg(idRegistry, 0 /*bind*/, concat(
		encodeUint32(seatName),
		encodeString("wl_seat"),
		encodeUint32(1),
		encodeUint32(idSeat),
	)); err != nil {
		return err
	}
	return c.sendMsg(idRegistry, 0 /*bind*/, concat(
		encodeUint32(dcManagerName),
		encodeString("zwlr_data_control_manager_v1"),
		encodeUint32(2),
		encodeUint32(idDCManager),
	))
}

// selection holds the mime types offered by the current clipboard owner
// and the server-assigned id of its data offer object.
type selection struct {
	offerID uint32
	mimes   []string
}

// currentSelection binds a data device and drains the initial burst of
// data_offer/offer/selection events the compositor sends for the current
// clipboard contents.
func currentSelection(c *conn) (*selection, error) {
	if err := c.sendMsg(idDCManager, 1 /*get_data_device*/, concat(
		encodeUint32(idDCDevice),
		encodeUint32(idSeat),
	)); err != nil {
		return nil, err
	}
	if err := c.sendMsg(idDisplay, 0 /*sync*/, encodeUint32(idCallback2)); err != nil {
		return nil, err
	}

	offers := map[uint32][]string{}
	var selectionID uint32

	for {
		objectID, opcode, payload, fd, err := c.readMsg()
		if err != nil {
			return nil, err
		}
		if fd >= 0 {
			syscall.Close(fd) //nolint:errcheck
		}

		switch {
		case objectID == idDCDevice && opcode == 0 /*data_offer*/ :
			if len(payload) >= 4 {
				id := le.Uint32(payload[:4])
				offers[id] = []string{}
			}

		case opcode == 0 && hasOffer(offers, objectID):
			// zwlr_data_control_offer_v1.offer carries one mime type.
			mime, _, decErr := decodeString(payload)
			if decErr == nil {
				offers[objectID] = append(offers[objectID], mime)
			}

		case objectID == idDCDevice && opcode == 1 /*selection*/ :
			if len(payload) >= 4 {
				selectionID = le.Uint32(payload[:4])
			}

		case objectID == idCallback2 && opcode == 0 /*done*/ :
			if selectionID == 0 {
				return nil, ErrNoSelection
			}
			return &selection{offerID: selectionID, mimes: offers[selectionID]}, nil
		}
	}
}

func hasOffer(offers map[uint32][]string, id uint32) bool {
	_, ok := offers[id]
	return ok
}

// ListTypes returns the mime types offered by the current clipboard owner,
// in compositor-reported order.
func ListTypes() ([]string, error) {
	c, err := dial()
	if err != nil {
		return nil, err
	}
	defer c.close()

	if err := bindGlobals(c); err != nil {
		return nil, err
	}
	sel, err := currentSelection(c)
	if err != nil {
		return nil, err
	}
	return sel.mimes, nil
}

// Receive asks the current clipboard owner for mime and reads the content
// to EOF through a pipe.
func Receive(mime string) ([]byte, error) {
	c, err := dial()
	if err != nil {
		return nil, err
	}
	defer c.close()

	if err := bindGlobals(c); err != nil {
		return nil, err
	}
	sel, err := currentSelection(c)
	if err != nil {
		return nil, err
	}

	offered := false
	for _, m := range sel.mimes {
		if m == mime {
			offered = true
			break
		}
	}
	if !offered {
		return nil, ErrNoSelection
	}

	var p [2]int
	if err := syscall.Pipe(p[:]); err != nil {
		return nil, err
	}

	// zwlr_data_control_offer_v1.receive(mime, fd); the owner writes into
	// the pipe and closes it.
	if err := c.sendMsgFd(sel.offerID, 0 /*receive*/, encodeString(mime), p[1]); err != nil {
		syscall.Close(p[0]) //nolint:errcheck
		syscall.Close(p[1]) //nolint:errcheck
		return nil, err
	}
	syscall.Close(p[1]) //nolint:errcheck

	r := os.NewFile(uintptr(p[0]), "wayland-clipboard")
	defer r.Close() //nolint:errcheck
	return io.ReadAll(r)
}

// Serve claims the Wayland clipboard and blocks until ownership is
// cancelled by another clipboard write. It offers every mime type of
// formats at once and serves each on demand by writing the corresponding
// bytes to the fd provided by the compositor.
func Serve(formats map[string][]byte) error {
	c, err := dial()
	if err != nil {
		return err
	}
	defer c.close()

	if err := bindGlobals(c); err != nil {
		return err
	}

	// Create data source and offer each mime type.
	if err := c.sendMsg(idDCManager, 0 /*create_data_source*/, encodeUint32(idDCSource)); err != nil {
		return err
	}
	for mimeType := range formats {
		if err := c.sendMsg(idDCSource, 0 /*offer*/, encodeString(mimeType)); err != nil {
			return err
		}
	}

	// Bind the data device and set the selection.
	if err := c.sendMsg(idDCManager, 1 /*get_data_device*/, concat(
		encodeUint32(idDCDevice),
		encodeUint32(idSeat),
	)); err != nil {
		return err
	}
	if err := c.sendMsg(idDCDevice, 0 /*set_selection*/, encodeUint32(idDCSource)); err != nil {
		return err
	}

	// Sync to confirm ownership.
	if err := c.sendMsg(idDisplay, 0 /*sync*/, encodeUint32(idCallback2)); err != nil {
		return err
	}
	for {
		objectID, opcode, _, fd, err := c.readMsg()
		if err != nil {
			return err
		}
		if fd >= 0 {
			syscall.Close(fd) //nolint:errcheck
		}
		if objectID == idCallback2 && opcode == 0 /*done*/ {
			break
		}
	}

	// Event loop: serve paste requests until ownership is cancelled.
	for {
		objectID, opcode, payload, fd, err := c.readMsg()
		if err != nil {
			// Connection closed means compositor exited; treat as done.
			return nil
		}

		if objectID != idDCSource {
			if fd >= 0 {
				syscall.Close(fd) //nolint:errcheck
			}
			continue
		}

		switch opcode {
		case 0: // zwlr_data_control_source_v1.send
			mimeType, _, _ := decodeString(payload)
			if fd >= 0 {
				if data, ok := formats[mimeType]; ok {
					syscall.Write(fd, data) //nolint:errcheck
				}
				syscall.Close(fd) //nolint:errcheck
			}
		case 1: // zwlr_data_control_source_v1.cancelled
			return nil
		}
	}
}
