// Package wire encodes and decodes the storage command wire format carried
// as the opaque byte payload of a routed "storage request": a UTF-8 text
// protocol between the external routing/dispatch service and the engine
// host.
//
//	list
//	upload <filename> <base64-of-bytes>
//	download id   <uuid>
//	download name <filename>
//	delete   id   <uuid>
//	delete   name <filename>
//
// Responses are textual: base64 bytes for a successful download, a
// newline-separated "<uuid>: <name>" line list for list, and a plain status
// line otherwise. Errors are conveyed in-band via a success flag plus a
// message rather than a wire-level fault.
package wire

import (
	"encoding/base64"
	"fmt"
	"strings"

	"chunkvault/internal/chunkid"
)

// CommandKind names the recognized request verbs.
type CommandKind int

const (
	CmdList CommandKind = iota
	CmdUpload
	CmdDownload
	CmdDelete
)

// Selector distinguishes resolving a file by id versus by name in
// download/delete requests.
type Selector int

const (
	SelectByID Selector = iota
	SelectByName
)

// Command is a parsed storage request.
type Command struct {
	Kind     CommandKind
	Filename string         // upload
	Data     []byte         // upload, decoded from base64
	Selector Selector       // download, delete
	ID       chunkid.FileID // download/delete by id
	Name     string         // download/delete by name
}

// ParseCommand decodes a single request line into a Command.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("wire: empty command")
	}

	switch fields[0] {
	case "list":
		if len(fields) != 1 {
			return Command{}, fmt.Errorf("wire: list takes no arguments")
		}
		return Command{Kind: CmdList}, nil

	case "upload":
		if len(fields) != 3 {
			return Command{}, fmt.Errorf("wire: upload requires <filename> <base64>")
		}
		data, err := base64.StdEncoding.DecodeString(fields[2])
		if err != nil {
			return Command{}, fmt.Errorf("wire: decode upload payload: %w", err)
		}
		return Command{Kind: CmdUpload, Filename: fields[1], Data: data}, nil

	case "download", "delete":
		kind := CmdDownload
		if fields[0] == "delete" {
			kind = CmdDelete
		}
		if len(fields) != 3 {
			return Command{}, fmt.Errorf("wire: %s requires (id <uuid> | name <filename>)", fields[0])
		}
		switch fields[1] {
		case "id":
			id, err := chunkid.ParseFileID(fields[2])
			if err != nil {
				return Command{}, fmt.Errorf("wire: %w", err)
			}
			return Command{Kind: kind, Selector: SelectByID, ID: id}, nil
		case "name":
			return Command{Kind: kind, Selector: SelectByName, Name: fields[2]}, nil
		default:
			return Command{}, fmt.Errorf("wire: unknown selector %q", fields[1])
		}

	default:
		return Command{}, fmt.Errorf("wire: unknown command %q", fields[0])
	}
}

// EncodeUpload renders a successful upload's status line, "ok <uuid>".
func EncodeUpload(id chunkid.FileID) string {
	return fmt.Sprintf("ok %s", id)
}

// EncodeDownload renders a successful download's base64 payload.
func EncodeDownload(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// EncodeList renders list_files() output as "<uuid>: <name>" lines.
func EncodeList(entries map[chunkid.FileID]string) string {
	lines := make([]string, 0, len(entries))
	for id, name := range entries {
		lines = append(lines, fmt.Sprintf("%s: %s", id, name))
	}
	return strings.Join(lines, "\n")
}

// EncodeError renders a failed operation as an in-band status line.
func EncodeError(err error) string {
	return fmt.Sprintf("error %s", err)
}
