package models

import (
	"fmt"

	"github.com/benmeehan/location-store/pkg/errs"
	"github.com/tinylib/msgp/msgp"
)

const (
	locationFields = 3
	recordFields   = 3
)

// MarshalMsg appends the MessagePack encoding of the location to b.
// The layout is a fixed array: [lat, lon, date].
func (z *Location) MarshalMsg(b []byte) ([]byte, error) {
	o := msgp.Require(b, z.Msgsize())
	o = msgp.AppendArrayHeader(o, locationFields)
	o = msgp.AppendFloat64(o, z.Latitude)
	o = msgp.AppendFloat64(o, z.Longitude)
	o = msgp.AppendUint64(o, z.Date)
	return o, nil
}

// UnmarshalMsg decodes a location from bts and returns the remaining bytes.
func (z *Location) UnmarshalMsg(bts []byte) ([]byte, error) {
	sz, bts, err := msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return bts, msgp.WrapError(err, "Location")
	}
	if sz != locationFields {
		return bts, msgp.ArrayError{Wanted: locationFields, Got: sz}
	}

	if z.Latitude, bts, err = msgp.ReadFloat64Bytes(bts); err != nil {
		return bts, msgp.WrapError(err, "Latitude")
	}
	if z.Longitude, bts, err = msgp.ReadFloat64Bytes(bts); err != nil {
		return bts, msgp.WrapError(err, "Longitude")
	}
	if z.Date, bts, err = msgp.ReadUint64Bytes(bts); err != nil {
		return bts, msgp.WrapError(err, "Date")
	}
	return bts, nil
}

// Msgsize returns an upper bound of the encoded size of the location.
func (z *Location) Msgsize() int {
	return msgp.ArrayHeaderSize + 2*msgp.Float64Size + msgp.Uint64Size
}

// MarshalMsg appends the MessagePack encoding of the record to b.
// The layout is a fixed array: [id, secret, [lat, lon, date]].
func (z *StoredRecord) MarshalMsg(b []byte) ([]byte, error) {
	o := msgp.Require(b, z.Msgsize())
	o = msgp.AppendArrayHeader(o, recordFields)
	o = msgp.AppendString(o, z.ID)
	o = msgp.AppendString(o, z.Secret)
	return z.Location.MarshalMsg(o)
}

// UnmarshalMsg decodes a record from bts and returns the remaining bytes.
func (z *StoredRecord) UnmarshalMsg(bts []byte) ([]byte, error) {
	sz, bts, err := msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return bts, msgp.WrapError(err, "StoredRecord")
	}
	if sz != recordFields {
		return bts, msgp.ArrayError{Wanted: recordFields, Got: sz}
	}

	if z.ID, bts, err = msgp.ReadStringBytes(bts); err != nil {
		return bts, msgp.WrapError(err, "ID")
	}
	if z.Secret, bts, err = msgp.ReadStringBytes(bts); err != nil {
		return bts, msgp.WrapError(err, "Secret")
	}
	if bts, err = z.Location.UnmarshalMsg(bts); err != nil {
		return bts, msgp.WrapError(err, "Location")
	}
	return bts, nil
}

// Msgsize returns an upper bound of the encoded size of the record.
func (z *StoredRecord) Msgsize() int {
	return msgp.ArrayHeaderSize + msgp.StringPrefixSize + len(z.ID) +
		msgp.StringPrefixSize + len(z.Secret) + z.Location.Msgsize()
}

// EncodeRecord serializes a record for storage.
func EncodeRecord(record StoredRecord) ([]byte, error) {
	data, err := record.MarshalMsg(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrDecode, err)
	}
	return data, nil
}

// DecodeRecord deserializes stored bytes. The whole input must be consumed.
func DecodeRecord(data []byte) (StoredRecord, error) {
	var record StoredRecord
	rest, err := record.UnmarshalMsg(data)
	if err != nil {
		return StoredRecord{}, fmt.Errorf("%w: %w", errs.ErrDecode, err)
	}
	if len(rest) != 0 {
		return StoredRecord{}, fmt.Errorf("%w: %d trailing bytes after record", errs.ErrDecode, len(rest))
	}
	return record, nil
}

// DecodeRecordForKey deserializes stored bytes and checks that the record ID matches its key.
func DecodeRecordForKey(key string, data []byte) (StoredRecord, error) {
	record, err := DecodeRecord(data)
	if err != nil {
		return StoredRecord{}, fmt.Errorf("key %q: %w", key, err)
	}
	if record.ID != key {
		return StoredRecord{}, fmt.Errorf("%w: key %q holds record %q", errs.ErrDecode, key, record.ID)
	}
	return record, nil
}
