/*
Package lite provides the light-weight variant of the xrc transform, without the substitution table.

Note that this is NOT encryption, since it is easily reversible.
This falls squarely under the obfuscation category.
As such, it is NOT recommended for security critical use.

# How it works:

Every key byte is first converted to its keystream byte with xrc.DeriveMask.
Each byte that passes through Screen, Reader, or Writer is XORed with the current keystream byte, and the screen progresses to the next one.
When the last keystream byte is used, the first will be used again, operating like a ring buffer.

Providing an offset will make the screen start at the given offset instead of the first byte.

Since XOR is its own inverse, the same operation both applies and removes the screen.
The same key and offset parameters must be provided to accurately reverse the process.
*/
package lite
