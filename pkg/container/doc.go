/*
Package container defines the xrc file format, and streams data into and out of it.

# Format:

A container starts with a fixed size big endian header.

	magic        uint16   0x5852 ("XR")
	version      uint8
	mode         uint8    ModeTable or ModeLite
	compression  uint8    CompressionNone, CompressionGzip, or CompressionZstd
	chunk size   uint32   plaintext bytes per frame
	salt         [16]byte
	signature    [32]byte

The signature is an HMAC-SHA256 of the key, keyed with a value derived from the key's keystream and the salt using HKDF-SHA256.
This allows Decrypt to reject a wrong key before any output is produced.

The header is followed by zero or more frames, each being a uint32 payload length and the payload.
Every frame holds one chunk of plaintext that has been compressed (if requested) and then encoded.
The last frame always has a length of 0, so a container that's cut off between frames is detected as truncated.
The keystream starts over at the beginning of every chunk, so chunks are encoded and decoded independently and in parallel.
Frames are always written in their original order.

# Important note:

As with the rest of this module, this is obfuscation and NOT encryption.
The signature only detects an incorrect key, it does not protect the integrity of the data.
*/
package container
