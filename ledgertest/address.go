package ledgertest

// Account and contract addresses with valid checksums. None of them is
// expected to exist on any network.
const (
	AccountA = "GDMMWIWYZ6KC5EB3JP23IFQJKKWU5GU25BTMJDERHUGLTCC6JIX3FJVY"
	AccountB = "GBWMPRB4BOZQ4RFNBAXW722ZRJBZ2XDB6Y2BUHMSBQFAOWDSSGYAW5NI"
	AccountC = "GAOJL5PJULGRNFPZ2NGGIPTYMLL2UE6MJIRNOWR4YTKA2M34BCHVRPRO"
	AccountD = "GCWAKL3S6KFKVQ2KVSDZPKX4XLKKUU72JLQSYFPNZ6IMRBYHVVKPR3W5"

	ContractA = "CDJIU6UAZHU7LUU7W7I2UBXESLOAINQLMG3MNF2DCIDJLTUC64CTSJGL"
	ContractB = "CDUKIPT3SYANLO3M6ILJLAXUUJKL2NY5RKILGW5ZYVUJBSFSRI2BB56A"

	// Token and Factory are used as the token and the factory contract in
	// tests that need to tell contracts apart.
	Token   = "CAH6MM2HE5RAQFSOGRC5N7OWHUZDOMAV2B3XIPMXGXLS4T46Z3QMBDDM"
	Factory = "CA4WV3U4KUNIWKGZA6CVLLH33HTJR63LSTTKWEX3SI24FKMHJ7G75LAP"
)
