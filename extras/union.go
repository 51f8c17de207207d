package extras

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var ErrUnknownVariant = errors.New("extras: unknown variant")

// Variants decodes a tagged union: Key names the discriminator field and New
// maps each tag to a constructor returning a pointer to the variant type.
//
//	objects := extras.Variants[SceneObject]{
//		Key: "id",
//		New: map[string]func() SceneObject{
//			"shooting_square": func() SceneObject { return &ShootingSquare{} },
//		},
//	}
type Variants[T any] struct {
	Key string
	New map[string]func() T
}

// Decode picks the variant named by the discriminator and decodes raw into it.
func (v Variants[T]) Decode(raw []byte) (T, error) {
	var zero T
	tag, err := Discriminator(raw, v.Key)
	if err != nil {
		return zero, err
	}
	ctor, ok := v.New[tag]
	if !ok {
		return zero, fmt.Errorf("%w %q", ErrUnknownVariant, tag)
	}
	out := ctor()
	if err := json.Unmarshal(raw, out); err != nil {
		return zero, fmt.Errorf("%w: variant %q: %w", ErrMalformed, tag, err)
	}
	return out, nil
}

// Discriminator returns the string value of key in the JSON object raw.
func Discriminator(raw []byte, key string) (string, error) {
	if !gjson.ValidBytes(raw) {
		return "", fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	v := gjson.GetBytes(raw, gjson.Escape(key))
	if v.Type != gjson.String {
		return "", fmt.Errorf("%w: discriminator %q missing or not a string", ErrMalformed, key)
	}
	return v.Str, nil
}
