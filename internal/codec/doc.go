// Package codec translates typed Go values to and from JSON.
//
// A Codec pairs a strict decoder with a total encoder for one semantic type.
// Codecs compose: Optional lifts a codec to accept JSON null as "no value",
// and List lifts it to a JSON array of that type.
//
//	keys := codec.List(codec.String())
//	v, err := keys.Decode(json.RawMessage(`["a","b"]`))
//	raw := keys.Encode(v) // ["a","b"]
//
// Decoders never substitute a default for malformed input; every failure is
// returned as a *DecodeError naming the codec that rejected the value.
package codec
