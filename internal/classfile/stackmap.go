package classfile

// parseStackMapTable decodes a StackMapTable attribute's payload into
// an offset->frame map in absolute form. The class file's frames are
// diff-encoded against the previous frame and against an implicit
// initial frame whose locals are the method's receiver and parameters;
// initial carries that implicit frame so append/chop deltas resolve
// against the right base.
func parseStackMapTable(payload []byte, pool *ConstantPool, initial []VerificationType) (map[int]StackMapFrame, error) {
	r := newReader(payload)
	count, err := r.u2()
	if err != nil {
		return nil, &ErrMalformed{Reason: "truncated StackMapTable count"}
	}

	result := make(map[int]StackMapFrame, count)
	offset := -1 // so that the first frame's offset_delta is used directly
	locals := append([]VerificationType(nil), initial...)

	for i := 0; i < int(count); i++ {
		frameType, err := r.u1()
		if err != nil {
			return nil, &ErrMalformed{Reason: "truncated stack map frame"}
		}

		var stack []VerificationType
		var delta int

		switch {
		case frameType <= 63: // same_frame
			delta = int(frameType)

		case frameType <= 127: // same_locals_1_stack_item_frame
			delta = int(frameType) - 64
			vt, err := readVerificationType(r, pool)
			if err != nil {
				return nil, err
			}
			stack = []VerificationType{vt}

		case frameType == 247: // same_locals_1_stack_item_frame_extended
			d, err := r.u2()
			if err != nil {
				return nil, &ErrMalformed{Reason: "truncated extended frame"}
			}
			delta = int(d)
			vt, err := readVerificationType(r, pool)
			if err != nil {
				return nil, err
			}
			stack = []VerificationType{vt}

		case frameType >= 248 && frameType <= 250: // chop_frame
			d, err := r.u2()
			if err != nil {
				return nil, &ErrMalformed{Reason: "truncated chop frame"}
			}
			delta = int(d)
			chopCount := 251 - int(frameType)
			if chopCount > len(locals) {
				return nil, &ErrMalformed{Reason: "chop_frame removes more locals than present"}
			}
			locals = locals[:len(locals)-chopCount]

		case frameType == 251: // same_frame_extended
			d, err := r.u2()
			if err != nil {
				return nil, &ErrMalformed{Reason: "truncated same_frame_extended"}
			}
			delta = int(d)

		case frameType >= 252 && frameType <= 254: // append_frame
			d, err := r.u2()
			if err != nil {
				return nil, &ErrMalformed{Reason: "truncated append frame"}
			}
			delta = int(d)
			appendCount := int(frameType) - 251
			for j := 0; j < appendCount; j++ {
				vt, err := readVerificationType(r, pool)
				if err != nil {
					return nil, err
				}
				locals = append(locals, vt)
			}

		case frameType == 255: // full_frame
			d, err := r.u2()
			if err != nil {
				return nil, &ErrMalformed{Reason: "truncated full frame"}
			}
			delta = int(d)
			localCount, err := r.u2()
			if err != nil {
				return nil, &ErrMalformed{Reason: "truncated full frame locals"}
			}
			newLocals := make([]VerificationType, 0, localCount)
			for j := 0; j < int(localCount); j++ {
				vt, err := readVerificationType(r, pool)
				if err != nil {
					return nil, err
				}
				newLocals = append(newLocals, vt)
			}
			locals = newLocals
			stackCount, err := r.u2()
			if err != nil {
				return nil, &ErrMalformed{Reason: "truncated full frame stack"}
			}
			stack = make([]VerificationType, 0, stackCount)
			for j := 0; j < int(stackCount); j++ {
				vt, err := readVerificationType(r, pool)
				if err != nil {
					return nil, err
				}
				stack = append(stack, vt)
			}

		default:
			return nil, &ErrMalformed{Reason: "unrecognized stack map frame tag"}
		}

		if offset < 0 {
			offset = delta
		} else {
			offset = offset + delta + 1
		}

		localsCopy := make([]VerificationType, len(locals))
		copy(localsCopy, locals)
		result[offset] = StackMapFrame{Locals: localsCopy, Stack: stack}
	}

	return result, nil
}

// initialFrameLocals builds the implicit frame-zero locals the diff
// encoding is anchored to: the receiver (for instance methods) followed
// by one entry per declared parameter. Long and double parameters are a
// single entry each, matching the StackMapTable's locals encoding (the
// phantom second slot is implicit there, unlike in local-variable
// numbering).
func initialFrameLocals(thisClass, descriptor string, static bool) []VerificationType {
	var locals []VerificationType
	if !static {
		locals = append(locals, VerificationType{Kind: VTObject, ClassName: thisClass})
	}
	i := 1 // skip '('
	for i < len(descriptor) && descriptor[i] != ')' {
		start := i
		for i < len(descriptor) && descriptor[i] == '[' {
			i++
		}
		if i >= len(descriptor) {
			break
		}
		isArray := i > start
		c := descriptor[i]
		if c == 'L' {
			for i < len(descriptor) && descriptor[i] != ';' {
				i++
			}
			if i < len(descriptor) {
				i++
			}
			name := descriptor[start+1 : i-1]
			if isArray {
				// Array types use their full descriptor as the internal name.
				name = descriptor[start:i]
			}
			locals = append(locals, VerificationType{Kind: VTObject, ClassName: name})
			continue
		}
		i++
		if isArray {
			locals = append(locals, VerificationType{Kind: VTObject, ClassName: descriptor[start:i]})
			continue
		}
		switch c {
		case 'J':
			locals = append(locals, VerificationType{Kind: VTLong})
		case 'D':
			locals = append(locals, VerificationType{Kind: VTDouble})
		case 'F':
			locals = append(locals, VerificationType{Kind: VTFloat})
		default: // I, Z, B, C, S collapse to int width
			locals = append(locals, VerificationType{Kind: VTInteger})
		}
	}
	return locals
}

func readVerificationType(r *reader, pool *ConstantPool) (VerificationType, error) {
	tag, err := r.u1()
	if err != nil {
		return VerificationType{}, &ErrMalformed{Reason: "truncated verification type"}
	}
	switch tag {
	case 0:
		return VerificationType{Kind: VTTop}, nil
	case 1:
		return VerificationType{Kind: VTInteger}, nil
	case 2:
		return VerificationType{Kind: VTFloat}, nil
	case 3:
		return VerificationType{Kind: VTDouble}, nil
	case 4:
		return VerificationType{Kind: VTLong}, nil
	case 5:
		return VerificationType{Kind: VTNull}, nil
	case 6:
		return VerificationType{Kind: VTUninitializedThis}, nil
	case 7:
		idx, err := r.u2()
		if err != nil {
			return VerificationType{}, &ErrMalformed{Reason: "truncated object verification type"}
		}
		return VerificationType{Kind: VTObject, ClassName: pool.ClassNameAt(int(idx))}, nil
	case 8:
		if _, err := r.u2(); err != nil { // offset of the `new` instruction
			return VerificationType{}, &ErrMalformed{Reason: "truncated uninitialized verification type"}
		}
		return VerificationType{Kind: VTUninitialized}, nil
	default:
		return VerificationType{}, &ErrMalformed{Reason: "unknown verification type tag"}
	}
}
