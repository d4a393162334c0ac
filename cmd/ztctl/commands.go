package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nsfzt/ztctl/internal/config"
	"github.com/nsfzt/ztctl/internal/members"
	"github.com/nsfzt/ztctl/internal/output"
	"github.com/nsfzt/ztctl/internal/types"
)

func statusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the API server status and the authenticated user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.resolve(cmd.Flags(), false, false)
			if err != nil {
				return err
			}
			session, err := a.openSession(cmd.Context(), s)
			if err != nil {
				return err
			}
			return a.printer().PrintStatus(output.ToStatusResult(session.Status()))
		},
	}
}

func networkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "network",
		Short: "Network related commands",
	}
	cmd.PersistentFlags().StringVar(&a.networkID, flagNetworkID, "", "Network id (env "+config.EnvNetworkID+")")

	cmd.AddCommand(networkShowCmd(a))
	cmd.AddCommand(memberCmd(a))
	return cmd
}

func networkShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the network and your permissions on it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.resolve(cmd.Flags(), true, false)
			if err != nil {
				return err
			}
			network, err := a.openNetwork(cmd.Context(), s)
			if err != nil {
				return err
			}
			return a.printer().PrintNetwork(output.ToNetworkResult(network.Network()))
		},
	}
}

func memberCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Network member related commands",
	}
	cmd.AddCommand(memberListCmd(a))
	cmd.AddCommand(memberGetCmd(a))
	cmd.AddCommand(memberAuthorizeCmd(a))
	cmd.AddCommand(memberDeauthorizeCmd(a))
	cmd.AddCommand(memberModifyCmd(a))
	return cmd
}

func memberListCmd(a *app) *cobra.Command {
	var sortKey string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List the members of a network",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := memberFilter(cmd.Flags())
			if err != nil {
				return err
			}
			key, err := members.ParseSortKey(sortKey)
			if err != nil {
				return err
			}

			s, err := a.resolve(cmd.Flags(), true, false)
			if err != nil {
				return err
			}
			network, err := a.openNetwork(cmd.Context(), s)
			if err != nil {
				return err
			}
			list, err := network.ListMembers(cmd.Context())
			if err != nil {
				return err
			}

			list = filter.Apply(list)
			members.Sort(list, key)
			return a.printer().PrintMembers(output.ToMemberListResult(network.Network().ID, list, a.now()))
		},
	}

	keys := make([]string, len(members.SortKeys))
	for i, k := range members.SortKeys {
		keys[i] = string(k)
	}

	flags := cmd.Flags()
	flags.String("name", "", "List only members whose name contains this text")
	flags.String("description", "", "List only members whose description contains this text")
	flags.Bool("authorized", false, "List only authorized members")
	flags.Bool("deauthorized", false, "List only deauthorized members")
	flags.Bool("online", false, "List only online members")
	flags.Bool("offline", false, "List only offline members")
	flags.StringVar(&sortKey, "sort", string(members.SortNone), "Order: "+strings.Join(keys, ", "))
	return cmd
}

func memberGetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show one network member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.resolve(cmd.Flags(), true, true)
			if err != nil {
				return err
			}
			network, err := a.openNetwork(cmd.Context(), s)
			if err != nil {
				return err
			}
			member, err := network.GetMember(cmd.Context(), s.MemberID)
			if err != nil {
				return err
			}
			return a.printer().PrintMember(output.ToMemberResult(member, a.now()))
		},
	}
	addMemberIDFlag(cmd)
	return cmd
}

func memberAuthorizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authorize",
		Short: "Authorize a member to join the network",
		Long: `Authorize a member to join the network, optionally naming and describing it.

Naming and describing require the modify permission. Without it the name and
description are skipped with a warning and the member is still authorized.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			update := types.MemberUpdate{
				Authorized:  types.Some(true),
				Name:        optionalString(cmd.Flags(), "name"),
				Description: optionalString(cmd.Flags(), "description"),
			}
			return a.updateMember(cmd, update)
		},
	}
	addMemberIDFlag(cmd)
	addMemberInfoFlags(cmd)
	return cmd
}

func memberDeauthorizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deauthorize",
		Short: "Deauthorize a member from the network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.updateMember(cmd, types.MemberUpdate{Authorized: types.Some(false)})
		},
	}
	addMemberIDFlag(cmd)
	return cmd
}

func memberModifyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modify",
		Short: "Edit a member's authorization, name or description",
		Long: `Edit a member. Only the flags given are sent: omitting --name leaves the
name untouched while --name "" clears it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			authorized, err := optionalBoolPair(cmd.Flags(), "authorized", "deauthorized")
			if err != nil {
				return err
			}
			update := types.MemberUpdate{
				Authorized:  authorized,
				Name:        optionalString(cmd.Flags(), "name"),
				Description: optionalString(cmd.Flags(), "description"),
			}
			if update.IsEmpty() {
				return fmt.Errorf("nothing to modify: pass --authorized, --deauthorized, --name or --description")
			}
			return a.updateMember(cmd, update)
		},
	}
	addMemberIDFlag(cmd)
	addMemberInfoFlags(cmd)
	cmd.Flags().Bool("authorized", false, "Authorize the member")
	cmd.Flags().Bool("deauthorized", false, "Deauthorize the member")
	return cmd
}

// updateMember sends update for the resolved member and prints the result.
func (a *app) updateMember(cmd *cobra.Command, update types.MemberUpdate) error {
	s, err := a.resolve(cmd.Flags(), true, true)
	if err != nil {
		return err
	}
	network, err := a.openNetwork(cmd.Context(), s)
	if err != nil {
		return err
	}
	member, err := network.UpdateMember(cmd.Context(), s.MemberID, update)
	if err != nil {
		return err
	}
	return a.printer().PrintMember(output.ToMemberResult(member, a.now()))
}

func addMemberIDFlag(cmd *cobra.Command) {
	cmd.Flags().String(flagMemberID, "", "Member id, the third field of `zerotier-cli info` on the device (env "+config.EnvMemberID+")")
}

func addMemberInfoFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Short human readable name, ideally unique")
	cmd.Flags().String("description", "", "Longer description of the member")
}

// memberFilter builds the ls filter from the flags actually given.
func memberFilter(flags *pflag.FlagSet) (members.Filter, error) {
	authorized, err := optionalBoolPair(flags, "authorized", "deauthorized")
	if err != nil {
		return members.Filter{}, err
	}
	online, err := optionalBoolPair(flags, "online", "offline")
	if err != nil {
		return members.Filter{}, err
	}
	return members.Filter{
		Name:        optionalString(flags, "name"),
		Description: optionalString(flags, "description"),
		Authorized:  authorized,
		Online:      online,
	}, nil
}

// optionalString is set only if the flag was given, even as "".
func optionalString(flags *pflag.FlagSet, name string) types.Optional[string] {
	if !flags.Changed(name) {
		return types.None[string]()
	}
	v, _ := flags.GetString(name)
	return types.Some(v)
}

// optionalBoolPair reads a --x/--no-x style pair of flags into one value.
// Giving both is an error.
func optionalBoolPair(flags *pflag.FlagSet, on, off string) (types.Optional[bool], error) {
	onSet, offSet := flags.Changed(on), flags.Changed(off)
	switch {
	case onSet && offSet:
		return types.None[bool](), fmt.Errorf("--%s and --%s are mutually exclusive", on, off)
	case onSet:
		v, _ := flags.GetBool(on)
		return types.Some(v), nil
	case offSet:
		v, _ := flags.GetBool(off)
		return types.Some(!v), nil
	}
	return types.None[bool](), nil
}
