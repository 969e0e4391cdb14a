// Package manifest persists the identity and segment list of one index.
//
// # Binary Format
//
//	Header (16 bytes):
//	  Magic    (4 bytes) - 0x5349584D ("SIXM")
//	  Version  (4 bytes) - Format version (currently 1)
//	  Checksum (4 bytes) - CRC32-IEEE of payload
//	  Length   (4 bytes) - Payload length in bytes
//
//	Payload:
//	  ID               (8 bytes) - Manifest version ID
//	  CreatedAt        (8 bytes) - Unix nanoseconds
//	  Name             (string)  - Index name
//	  LayoutIdentifier (8 bytes)
//	  LayoutMajor      (4 bytes)
//	  LayoutMinor      (4 bytes)
//	  NextSegmentID    (8 bytes) - Next segment ID to allocate
//	  NumSegments      (4 bytes)
//	  Segments[]                 - ID, EntryCount, Size, Path
//
// Strings are length-prefixed (2-byte length + bytes).
//
// # Atomic Protocol
//
// Save writes MANIFEST-NNNNNN.bin and then replaces the CURRENT pointer
// blob with its name. Load follows CURRENT. Both blobs live under the
// index directory.
package manifest
