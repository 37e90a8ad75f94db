// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uprove

import (
	"fmt"
	"sort"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/uprove/big"
	"github.com/privacybydesign/uprove/ec"
	"github.com/privacybydesign/uprove/ecparams"
)

// recommendedCurves are the curves of the U-Prove recommended parameters.
var recommendedCurves = []string{"P-256", "P-384", "P-521"}

// DefaultGroups holds the recommended groups by name.
var DefaultGroups = makeDefaultGroups()

func makeDefaultGroups() map[string]*ECGroup {
	groups := make(map[string]*ECGroup, len(recommendedCurves))
	for _, name := range recommendedCurves {
		d, err := ecparams.ByName(name)
		if err != nil {
			panic(err)
		}
		grp, err := NewECGroupFromDescriptor(d, ec.DefaultConfig())
		if err != nil {
			panic(err)
		}
		grp.named = true
		groups[name] = grp
	}
	return groups
}

// getAvailableGroupNames returns the sorted names of the provided groups.
func getAvailableGroupNames(groups map[string]*ECGroup) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultGroupNames holds the names of the groups in DefaultGroups.
var DefaultGroupNames = getAvailableGroupNames(DefaultGroups)

// NamedGroup returns the recommended group with the given name or OID.
func NamedGroup(name string) (*ECGroup, error) {
	if grp, ok := DefaultGroups[name]; ok {
		return grp, nil
	}
	for _, grp := range DefaultGroups {
		if grp.oid == name {
			return grp, nil
		}
	}
	return nil, errors.WrapPrefix(ErrUnknownGroup, name, 0)
}

// GroupFromDescription reconstructs and verifies the described group.
func GroupFromDescription(d *GroupDescription) (Group, error) {
	switch d.Type {
	case namedGroupType:
		return NamedGroup(d.Name)

	case ECType.String():
		if d.P == nil || d.A == nil || d.B == nil || d.Q == nil {
			return nil, errors.WrapPrefix(ErrInvalidGroup, "incomplete curve description", 0)
		}
		curve, err := ec.NewCurve(d.P, d.A, d.B, d.Q, nil)
		if err != nil {
			return nil, err
		}
		g, err := curve.DecodePoint(d.G)
		if err != nil {
			return nil, errors.WrapPrefix(err, "generator", 0)
		}
		grp, err := NewECGroup(d.Name, curve, g)
		if err != nil {
			return nil, err
		}
		if err = grp.Verify(); err != nil {
			return nil, err
		}
		return grp, nil

	case SubgroupType.String():
		if d.P == nil || d.Q == nil || len(d.G) == 0 {
			return nil, errors.WrapPrefix(ErrInvalidGroup, "incomplete subgroup description", 0)
		}
		grp, err := NewSubgroupGroup(d.Name, d.P, d.Q, new(big.Int).SetBytes(d.G))
		if err != nil {
			return nil, err
		}
		if err = grp.Verify(); err != nil {
			return nil, err
		}
		return grp, nil
	}
	return nil, errors.WrapPrefix(ErrUnknownGroup, fmt.Sprintf("group type %q", d.Type), 0)
}
