package xrc_test

import (
	"fmt"

	"github.com/saylorsolutions/xorcryptor/pkg/xrc"
)

func ExampleCipher() {
	c, err := xrc.NewCipher([]byte("key6#%"))
	if err != nil {
		panic(err)
	}
	encrypted, _ := c.EncryptString("hi!!!!")
	decrypted, _ := c.DecryptString(encrypted)

	fmt.Printf("%x\n", encrypted)
	fmt.Println(decrypted)

	// Output:
	// 6b025bd801ad
	// hi!!!!
}

func ExampleEncode() {
	stream := xrc.DeriveKeystream([]byte("key6#%"))
	encoded := xrc.Encode([]byte("abc"), stream, xrc.EncodeTable())
	decoded := xrc.Decode(encoded, stream, xrc.DecodeTable())

	fmt.Printf("%x %s\n", encoded, decoded)

	// Output:
	// 591349 abc
}
