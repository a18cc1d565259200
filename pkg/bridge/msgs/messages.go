// Package msgs defines the protobuf payloads exchanged with the bridge.
package msgs

import (
	"github.com/golang/protobuf/proto"
)

// RegisterRead requests Length registers from Start on device ID.
type RegisterRead struct {
	ID     uint32 `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
	Start  uint32 `protobuf:"varint,2,opt,name=start,proto3" json:"start,omitempty"`
	Length uint32 `protobuf:"varint,3,opt,name=length,proto3" json:"length,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *RegisterRead) ProtoMessage() {}

// Reset implements proto.Message.
func (m *RegisterRead) Reset() { *m = RegisterRead{} }

// String implements proto.Message.
func (m *RegisterRead) String() string { return proto.CompactTextString(m) }

// RegisterValue is the reply of RegisterRead.
type RegisterValue struct {
	ID     uint32 `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
	Start  uint32 `protobuf:"varint,2,opt,name=start,proto3" json:"start,omitempty"`
	Values []byte `protobuf:"bytes,3,opt,name=values,proto3" json:"values,omitempty"`
	Status uint32 `protobuf:"varint,4,opt,name=status,proto3" json:"status,omitempty"`
	Error  string `protobuf:"bytes,5,opt,name=error,proto3" json:"error,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *RegisterValue) ProtoMessage() {}

// Reset implements proto.Message.
func (m *RegisterValue) Reset() { *m = RegisterValue{} }

// String implements proto.Message.
func (m *RegisterValue) String() string { return proto.CompactTextString(m) }

// RegisterWrite writes Values from Start on device ID.
type RegisterWrite struct {
	ID     uint32 `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
	Start  uint32 `protobuf:"varint,2,opt,name=start,proto3" json:"start,omitempty"`
	Values []byte `protobuf:"bytes,3,opt,name=values,proto3" json:"values,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *RegisterWrite) ProtoMessage() {}

// Reset implements proto.Message.
func (m *RegisterWrite) Reset() { *m = RegisterWrite{} }

// String implements proto.Message.
func (m *RegisterWrite) String() string { return proto.CompactTextString(m) }

// SyncRow is the register block of one device in SyncWriteRequest.
type SyncRow struct {
	ID     uint32 `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
	Values []byte `protobuf:"bytes,2,opt,name=values,proto3" json:"values,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *SyncRow) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SyncRow) Reset() { *m = SyncRow{} }

// String implements proto.Message.
func (m *SyncRow) String() string { return proto.CompactTextString(m) }

// SyncWriteRequest writes the same register block on several devices.
type SyncWriteRequest struct {
	Start uint32     `protobuf:"varint,1,opt,name=start,proto3" json:"start,omitempty"`
	Rows  []*SyncRow `protobuf:"bytes,2,rep,name=rows,proto3" json:"rows,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *SyncWriteRequest) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SyncWriteRequest) Reset() { *m = SyncWriteRequest{} }

// String implements proto.Message.
func (m *SyncWriteRequest) String() string { return proto.CompactTextString(m) }

// NamedPose is a pose carried inline in SequenceDownload.
type NamedPose struct {
	Name   string   `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	Values []uint32 `protobuf:"varint,2,rep,packed,name=values,proto3" json:"values,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *NamedPose) ProtoMessage() {}

// Reset implements proto.Message.
func (m *NamedPose) Reset() { *m = NamedPose{} }

// String implements proto.Message.
func (m *NamedPose) String() string { return proto.CompactTextString(m) }

// Transition moves to a named pose in Millis milliseconds.
type Transition struct {
	Pose   string `protobuf:"bytes,1,opt,name=pose,proto3" json:"pose,omitempty"`
	Millis uint32 `protobuf:"varint,2,opt,name=millis,proto3" json:"millis,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Transition) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Transition) Reset() { *m = Transition{} }

// String implements proto.Message.
func (m *Transition) String() string { return proto.CompactTextString(m) }

// SequenceDownload downloads and starts a sequence. When Name is set the
// sequence and its poses come from the bridge's library, otherwise they
// are carried inline.
type SequenceDownload struct {
	Name        string        `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	Poses       []*NamedPose  `protobuf:"bytes,2,rep,name=poses,proto3" json:"poses,omitempty"`
	Transitions []*Transition `protobuf:"bytes,3,rep,name=transitions,proto3" json:"transitions,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *SequenceDownload) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SequenceDownload) Reset() { *m = SequenceDownload{} }

// String implements proto.Message.
func (m *SequenceDownload) String() string { return proto.CompactTextString(m) }

// ScanRequest pings device ids in [From, To].
type ScanRequest struct {
	From uint32 `protobuf:"varint,1,opt,name=from,proto3" json:"from,omitempty"`
	To   uint32 `protobuf:"varint,2,opt,name=to,proto3" json:"to,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *ScanRequest) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ScanRequest) Reset() { *m = ScanRequest{} }

// String implements proto.Message.
func (m *ScanRequest) String() string { return proto.CompactTextString(m) }

// ScanResult lists the devices that answered.
type ScanResult struct {
	IDs []uint32 `protobuf:"varint,1,rep,packed,name=ids,proto3" json:"ids,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *ScanResult) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ScanResult) Reset() { *m = ScanResult{} }

// String implements proto.Message.
func (m *ScanResult) String() string { return proto.CompactTextString(m) }

// CommandResult is the reply of commands without data.
type CommandResult struct {
	Status uint32 `protobuf:"varint,1,opt,name=status,proto3" json:"status,omitempty"`
	Error  string `protobuf:"bytes,2,opt,name=error,proto3" json:"error,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *CommandResult) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandResult) Reset() { *m = CommandResult{} }

// String implements proto.Message.
func (m *CommandResult) String() string { return proto.CompactTextString(m) }

// OK tells if the command succeeded with a zero status.
func (m *CommandResult) OK() bool { return m.Error == "" && m.Status == 0 }

// BridgeInfo is published retained on the meta topic.
type BridgeInfo struct {
	ID        string   `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	Port      string   `protobuf:"bytes,2,opt,name=port,proto3" json:"port,omitempty"`
	PoseSize  uint32   `protobuf:"varint,3,opt,name=pose_size,proto3" json:"pose_size,omitempty"`
	Sequences []string `protobuf:"bytes,4,rep,name=sequences,proto3" json:"sequences,omitempty"`
	Online    bool     `protobuf:"varint,5,opt,name=online,proto3" json:"online,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *BridgeInfo) ProtoMessage() {}

// Reset implements proto.Message.
func (m *BridgeInfo) Reset() { *m = BridgeInfo{} }

// String implements proto.Message.
func (m *BridgeInfo) String() string { return proto.CompactTextString(m) }
