package classfile

// parseBootstrapMethods decodes the BootstrapMethods attribute: one entry
// per invokedynamic call site in the class, each naming a method handle
// (almost always LambdaMetafactory.metafactory) and its static arguments.
// The interpreter only needs the standard lambda shape, so arguments are
// resolved just far enough to recognize it: the backing implementation
// method handle (argument index 1) and the lambda's descriptor (index 2).
func parseBootstrapMethods(payload []byte, pool *ConstantPool) ([]BootstrapMethod, error) {
	r := newReader(payload)
	count, err := r.u2()
	if err != nil {
		return nil, &ErrMalformed{Reason: "truncated BootstrapMethods count"}
	}

	methods := make([]BootstrapMethod, 0, count)
	for i := 0; i < int(count); i++ {
		refIdx, err := r.u2()
		if err != nil {
			return nil, &ErrMalformed{Reason: "truncated bootstrap method ref"}
		}
		bm, err := resolveMethodHandle(pool, int(refIdx))
		if err != nil {
			return nil, err
		}

		argCount, err := r.u2()
		if err != nil {
			return nil, &ErrMalformed{Reason: "truncated bootstrap argument count"}
		}
		for j := 0; j < int(argCount); j++ {
			argIdx, err := r.u2()
			if err != nil {
				return nil, &ErrMalformed{Reason: "truncated bootstrap argument"}
			}
			bm.Arguments = append(bm.Arguments, resolveBootstrapArgument(pool, int(argIdx)))
		}

		methods = append(methods, bm)
	}
	return methods, nil
}

func resolveMethodHandle(pool *ConstantPool, index int) (BootstrapMethod, error) {
	c, ok := pool.Get(index)
	if !ok || c.Tag != TagMethodHandle {
		return BootstrapMethod{}, &ErrMalformed{Reason: "bootstrap method ref is not a MethodHandle"}
	}
	owner, name, descriptor := pool.RefAt(c.ReferenceIndex)
	return BootstrapMethod{
		MethodHandleKind: c.ReferenceKind,
		Owner:            owner,
		Name:             name,
		Descriptor:       descriptor,
	}, nil
}

func resolveBootstrapArgument(pool *ConstantPool, index int) BootstrapArgument {
	c, ok := pool.Get(index)
	if !ok {
		return BootstrapArgument{}
	}
	arg := BootstrapArgument{Tag: c.Tag}
	switch c.Tag {
	case TagMethodHandle:
		owner, name, descriptor := pool.RefAt(c.ReferenceIndex)
		arg.MethodHandleKind = c.ReferenceKind
		arg.OwnerClass = owner
		arg.MemberName = name
		arg.MemberDescriptor = descriptor
		if refC, ok := pool.Get(c.ReferenceIndex); ok {
			arg.IsInterfaceRef = refC.Tag == TagInterfaceMethodref
		}
	case TagMethodType:
		arg.Descriptor = pool.UTF8At(c.NameIndex)
	case TagString:
		arg.StringVal = pool.UTF8At(c.NameIndex)
	case TagClass:
		arg.ClassVal = pool.ClassNameAt(index)
	}
	return arg
}
