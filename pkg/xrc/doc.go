/*
Package xrc provides a deterministic, key driven byte transposition and substitution scheme.

Note that this is NOT encryption, since there is no key hardening or authentication, and the transform is easily reversible with the key.
This falls squarely under the obfuscation category, just like the XOR screen it grew out of.
As such, it is NOT recommended for security critical use.

# How it works:

Every byte of the key is mixed with its own population count to produce a keystream byte, which is used cyclically, like a ring buffer.
A fixed, key-independent substitution table maps each input byte to another byte by examining its four 2-bit groups.
Input bytes are consumed two at a time: the substituted nibbles of each pair are interleaved into two new bytes, which are then masked with the keystream.
A trailing unpaired byte is handled on its own.

The output is always the same length as the input.

# Important note:

The same key must be provided to accurately reverse the process.
Decoding with a different key will result in garbled data, and nothing in this package will detect that.
See the container package for a file format that verifies the key before decoding.

# General guidelines:
  - Keys must be at least 6 bytes long when using Cipher, although the core functions only require a single byte.
  - Longer keys are better, but have limited usefulness with a short payload.
  - Using securely generated keys with the OS entropy pool (like with GenKey) is better than using a memorable phrase.
  - The substitution tables are built once per process and shared, so a Cipher is safe for concurrent use.
*/
package xrc
