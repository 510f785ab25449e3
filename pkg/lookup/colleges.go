package lookup

// Karnataka is the built-in table of known institutions.
var Karnataka = NewTable(
	// Engineering
	Entry{Key: "bangalore institute of technology", OfficialName: "Bangalore Institute of Technology", Website: "https://www.bit-bangalore.edu.in/", Location: "Bangalore, Karnataka", Type: "Engineering", Established: "1979", Affiliation: "VTU"},
	Entry{Key: "rv college of engineering", OfficialName: "R.V. College of Engineering", Website: "https://www.rvce.edu.in/", Location: "Bangalore, Karnataka", Type: "Engineering", Established: "1963", Affiliation: "VTU"},
	Entry{Key: "bmsce", OfficialName: "BMS College of Engineering", Website: "https://bmsce.ac.in/", Location: "Bangalore, Karnataka", Type: "Engineering", Established: "1946", Affiliation: "VTU"},
	Entry{Key: "ms ramaiah institute of technology", OfficialName: "M.S. Ramaiah Institute of Technology", Website: "https://msrit.edu/", Location: "Bangalore, Karnataka", Type: "Engineering", Established: "1962", Affiliation: "VTU"},
	Entry{Key: "sit", OfficialName: "Siddaganga Institute of Technology", Website: "https://sit.ac.in/", Location: "Tumkur, Karnataka", Type: "Engineering", Established: "1963", Affiliation: "VTU"},
	Entry{Key: "pes university", OfficialName: "PES University", Website: "https://pes.edu/", Location: "Bangalore, Karnataka", Type: "Engineering", Established: "1972", Affiliation: "Autonomous"},
	Entry{Key: "manipal institute of technology", OfficialName: "Manipal Institute of Technology", Website: "https://manipal.edu/mit.html", Location: "Manipal, Karnataka", Type: "Engineering", Established: "1957", Affiliation: "Deemed University"},

	// Medical
	Entry{Key: "bangalore medical college", OfficialName: "Bangalore Medical College and Research Institute", Website: "https://bmcri.edu.in/", Location: "Bangalore, Karnataka", Type: "Medical", Established: "1955", Affiliation: "RGUHS"},
	Entry{Key: "mysore medical college", OfficialName: "Mysore Medical College & Research Institute", Website: "https://www.mmcri.gov.in/", Location: "Mysore, Karnataka", Type: "Medical", Established: "1924", Affiliation: "RGUHS"},
	Entry{Key: "karnataka institute of medical sciences", OfficialName: "Karnataka Institute of Medical Sciences", Website: "https://kims.ac.in/", Location: "Hubli, Karnataka", Type: "Medical", Established: "1957", Affiliation: "RGUHS"},

	// Universities
	Entry{Key: "iisc", OfficialName: "Indian Institute of Science", Website: "https://iisc.ac.in/", Location: "Bangalore, Karnataka", Type: "Research University", Established: "1909", Affiliation: "Institute of Eminence"},
	Entry{Key: "bangalore university", OfficialName: "Bangalore University", Website: "https://bangaloreuniversity.ac.in/", Location: "Bangalore, Karnataka", Type: "University", Established: "1964", Affiliation: "State University"},
	Entry{Key: "mysore university", OfficialName: "University of Mysore", Website: "https://uni-mysore.ac.in/", Location: "Mysore, Karnataka", Type: "University", Established: "1916", Affiliation: "State University"},
	Entry{Key: "karnataka university", OfficialName: "Karnatak University", Website: "https://kud.ac.in/", Location: "Dharwad, Karnataka", Type: "University", Established: "1949", Affiliation: "State University"},

	// Management
	Entry{Key: "iim bangalore", OfficialName: "Indian Institute of Management Bangalore", Website: "https://www.iimb.ac.in/", Location: "Bangalore, Karnataka", Type: "Management", Established: "1973", Affiliation: "Institute of National Importance"},
	Entry{Key: "christ university", OfficialName: "CHRIST (Deemed to be University)", Website: "https://christuniversity.in/", Location: "Bangalore, Karnataka", Type: "Multi-disciplinary", Established: "1969", Affiliation: "Deemed University"},
)
